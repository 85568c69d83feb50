package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing file, got exists=true for %s", path)
	}
	if cfg.Logging.Level != defaultLogLevel {
		t.Fatalf("unexpected default level: %q", cfg.Logging.Level)
	}
	if cfg.Batch.Keep != defaultBatchKeep {
		t.Fatalf("unexpected default keep: %q", cfg.Batch.Keep)
	}
	if cfg.Tools.PreferBundled {
		t.Fatal("prefer_bundled should default to false")
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[tools]",
		`ffmpeg_path = "~/bin/ffmpeg"`,
		"prefer_bundled = true",
		"",
		"[batch]",
		`keep = "Full"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if !cfg.Tools.PreferBundled {
		t.Fatal("prefer_bundled not parsed")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if cfg.Tools.FFmpegPath != filepath.Join(home, "bin", "ffmpeg") {
		t.Fatalf("ffmpeg_path not expanded: %q", cfg.Tools.FFmpegPath)
	}
	if cfg.Batch.Keep != "full" {
		t.Fatalf("keep not normalized: %q", cfg.Batch.Keep)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad keep":   "[batch]\nkeep = \"subtitles\"\n",
		"bad format": "[logging]\nformat = \"xml\"\n",
		"bad level":  "[logging]\nlevel = \"verbose\"\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", name, err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := Load(target); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	got, err := ExpandPath("~/media")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "media") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
