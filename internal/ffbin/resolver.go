package ffbin

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Tool names resolved by this package.
const (
	FFmpeg  = "ffmpeg"
	FFprobe = "ffprobe"
)

// ErrNotFound reports that no usable executable exists across all candidate
// sources for a tool.
var ErrNotFound = errors.New("binary not found")

// Origin identifies which candidate source a tool resolves from.
type Origin string

const (
	OriginBundled Origin = "bundled"
	OriginCustom  Origin = "custom"
	OriginSystem  Origin = "system"
	OriginMissing Origin = "missing"
)

// Settings is the read-only configuration snapshot a Resolver works from.
type Settings struct {
	// PreferBundled orders vendored binaries before custom and system ones.
	PreferBundled bool
	// CustomPaths maps a tool name to a user-configured absolute path.
	CustomPaths map[string]string
	// BundleDir is the root of the vendored layout:
	// <BundleDir>/<platform>/<tool>[.exe].
	BundleDir string
}

// Resolver locates tool executables under the layered precedence policy.
type Resolver struct {
	settings Settings

	// test seams
	goos     string
	lookPath func(string) (string, error)
	chmod    func(string, os.FileMode) error
}

// NewResolver constructs a resolver over the given settings snapshot.
func NewResolver(settings Settings) *Resolver {
	return &Resolver{
		settings: settings,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		chmod:    os.Chmod,
	}
}

// Resolve returns the path to the named tool.
//
// Order with PreferBundled: vendored, custom, system.
// Order without: custom, system, vendored.
func (r *Resolver) Resolve(tool string) (string, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return "", fmt.Errorf("%w: empty tool name", ErrNotFound)
	}

	custom, customOK := r.customCandidate(tool)
	vendored, vendoredOK := r.vendoredCandidate(tool)
	system, systemOK := r.systemCandidate(tool)

	if r.settings.PreferBundled {
		if vendoredOK {
			r.ensureExecutable(vendored)
			return vendored, nil
		}
		if customOK {
			return custom, nil
		}
		if systemOK {
			return system, nil
		}
	} else {
		if customOK {
			return custom, nil
		}
		if systemOK {
			return system, nil
		}
		if vendoredOK {
			r.ensureExecutable(vendored)
			return vendored, nil
		}
	}

	return "", fmt.Errorf(
		"%w: %s (set tools.%s_path in the config, install it system-wide, or place it under %s)",
		ErrNotFound, tool, tool, filepath.Join(r.settings.BundleDir, r.platformTag()),
	)
}

// DetectOrigin reports where a tool would resolve from, for informational
// display. It mirrors the Resolve precedence without requiring success.
func (r *Resolver) DetectOrigin(tool string) Origin {
	_, customOK := r.customCandidate(tool)
	_, vendoredOK := r.vendoredCandidate(tool)
	_, systemOK := r.systemCandidate(tool)

	if r.settings.PreferBundled && vendoredOK {
		return OriginBundled
	}
	if customOK {
		return OriginCustom
	}
	if systemOK {
		return OriginSystem
	}
	if vendoredOK {
		return OriginBundled
	}
	return OriginMissing
}

// Status reports the availability of a tool.
type Status struct {
	Tool      string
	Origin    Origin
	Path      string
	Available bool
	Detail    string
}

// CheckTools evaluates each named tool and reports availability.
func (r *Resolver) CheckTools(tools ...string) []Status {
	results := make([]Status, 0, len(tools))
	for _, tool := range tools {
		status := Status{Tool: tool, Origin: r.DetectOrigin(tool)}
		path, err := r.Resolve(tool)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

func (r *Resolver) platformTag() string {
	if r.goos == "windows" {
		return "windows"
	}
	return "linux"
}

func (r *Resolver) customCandidate(tool string) (string, bool) {
	path := strings.TrimSpace(r.settings.CustomPaths[tool])
	if path == "" {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

func (r *Resolver) vendoredCandidate(tool string) (string, bool) {
	root := strings.TrimSpace(r.settings.BundleDir)
	if root == "" {
		return "", false
	}
	name := tool
	if r.platformTag() == "windows" {
		name += ".exe"
	}
	path := filepath.Join(root, r.platformTag(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

func (r *Resolver) systemCandidate(tool string) (string, bool) {
	path, err := r.lookPath(tool)
	if err != nil {
		return "", false
	}
	return path, true
}

// ensureExecutable marks a vendored binary executable. Idempotent, and
// best-effort: a chmod failure surfaces later as the exec failing.
func (r *Resolver) ensureExecutable(path string) {
	if r.platformTag() == "windows" {
		return
	}
	_ = r.chmod(path, 0o755)
}
