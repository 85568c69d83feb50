package ffbin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeBinary(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func newTestResolver(settings Settings, systemPath string) *Resolver {
	r := NewResolver(settings)
	r.goos = "linux"
	r.lookPath = func(string) (string, error) {
		if systemPath == "" {
			return "", errors.New("not found")
		}
		return systemPath, nil
	}
	return r
}

func TestResolveCustomWinsWhenBundledNotPreferred(t *testing.T) {
	dir := t.TempDir()
	custom := writeFakeBinary(t, filepath.Join(dir, "custom", "ffmpeg"))
	writeFakeBinary(t, filepath.Join(dir, "bundle", "linux", "ffmpeg"))

	r := newTestResolver(Settings{
		PreferBundled: false,
		CustomPaths:   map[string]string{FFmpeg: custom},
		BundleDir:     filepath.Join(dir, "bundle"),
	}, filepath.Join(dir, "system", "ffmpeg"))

	got, err := r.Resolve(FFmpeg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != custom {
		t.Fatalf("expected custom path %q, got %q", custom, got)
	}
	if origin := r.DetectOrigin(FFmpeg); origin != OriginCustom {
		t.Fatalf("expected custom origin, got %q", origin)
	}
}

func TestResolvePrefersBundled(t *testing.T) {
	dir := t.TempDir()
	custom := writeFakeBinary(t, filepath.Join(dir, "custom", "ffmpeg"))
	vendored := writeFakeBinary(t, filepath.Join(dir, "bundle", "linux", "ffmpeg"))

	var chmodded string
	r := newTestResolver(Settings{
		PreferBundled: true,
		CustomPaths:   map[string]string{FFmpeg: custom},
		BundleDir:     filepath.Join(dir, "bundle"),
	}, "")
	r.chmod = func(path string, mode os.FileMode) error {
		chmodded = path
		return os.Chmod(path, mode)
	}

	got, err := r.Resolve(FFmpeg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != vendored {
		t.Fatalf("expected vendored path %q, got %q", vendored, got)
	}
	if chmodded != vendored {
		t.Fatalf("vendored binary was not marked executable (chmod on %q)", chmodded)
	}
	if origin := r.DetectOrigin(FFmpeg); origin != OriginBundled {
		t.Fatalf("expected bundled origin, got %q", origin)
	}
}

func TestResolveFallsBackToSystemThenVendored(t *testing.T) {
	dir := t.TempDir()
	vendored := writeFakeBinary(t, filepath.Join(dir, "bundle", "linux", "ffprobe"))
	system := filepath.Join(dir, "bin", "ffprobe")

	r := newTestResolver(Settings{BundleDir: filepath.Join(dir, "bundle")}, system)
	got, err := r.Resolve(FFprobe)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != system {
		t.Fatalf("expected system path %q, got %q", system, got)
	}

	r = newTestResolver(Settings{BundleDir: filepath.Join(dir, "bundle")}, "")
	got, err = r.Resolve(FFprobe)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != vendored {
		t.Fatalf("expected vendored path %q, got %q", vendored, got)
	}
}

func TestResolveReportsNotFound(t *testing.T) {
	r := newTestResolver(Settings{BundleDir: filepath.Join(t.TempDir(), "nope")}, "")
	_, err := r.Resolve(FFmpeg)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if origin := r.DetectOrigin(FFmpeg); origin != OriginMissing {
		t.Fatalf("expected missing origin, got %q", origin)
	}
}

func TestResolveWindowsUsesExeSuffix(t *testing.T) {
	dir := t.TempDir()
	vendored := writeFakeBinary(t, filepath.Join(dir, "bundle", "windows", "ffmpeg.exe"))

	r := newTestResolver(Settings{PreferBundled: true, BundleDir: filepath.Join(dir, "bundle")}, "")
	r.goos = "windows"
	chmodCalled := false
	r.chmod = func(string, os.FileMode) error {
		chmodCalled = true
		return nil
	}

	got, err := r.Resolve(FFmpeg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != vendored {
		t.Fatalf("expected %q, got %q", vendored, got)
	}
	if chmodCalled {
		t.Fatal("chmod should not run on windows")
	}
}

func TestCheckToolsReportsPerTool(t *testing.T) {
	dir := t.TempDir()
	custom := writeFakeBinary(t, filepath.Join(dir, "ffmpeg"))

	r := newTestResolver(Settings{CustomPaths: map[string]string{FFmpeg: custom}}, "")
	statuses := r.CheckTools(FFmpeg, FFprobe)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Path != custom {
		t.Fatalf("ffmpeg status unexpected: %+v", statuses[0])
	}
	if statuses[1].Available {
		t.Fatalf("ffprobe should be unavailable: %+v", statuses[1])
	}
	if statuses[1].Detail == "" {
		t.Fatal("unavailable status should carry detail")
	}
}
