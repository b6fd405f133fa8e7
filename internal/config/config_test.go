package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Tools.ConcurrentFragments != defaultConcurrentFragments {
		t.Errorf("concurrent_fragments = %d, want default", cfg.Tools.ConcurrentFragments)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + dir + `/library"

[naming]
streamer = "SomeoneElse"

[tools]
concurrent_fragments = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("exists = false for present file")
	}
	if cfg.Naming.Streamer != "SomeoneElse" {
		t.Errorf("streamer = %q", cfg.Naming.Streamer)
	}
	if cfg.Tools.ConcurrentFragments != 4 {
		t.Errorf("concurrent_fragments = %d, want 4", cfg.Tools.ConcurrentFragments)
	}
	// Untouched sections keep defaults.
	if cfg.Naming.IDPrefix != defaultIDPrefix {
		t.Errorf("id_prefix = %q, want default", cfg.Naming.IDPrefix)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[tools]\nconcurrent_fragments = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOutputRoot(t *testing.T) {
	cfg := Default()
	cfg.Paths.LibraryDir = "/data/archive"
	got := cfg.OutputRoot()
	want := filepath.Join("/data/archive", defaultStreamer, defaultPlatform, defaultSection)
	if got != want {
		t.Errorf("OutputRoot() = %q, want %q", got, want)
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if !exists {
		t.Error("sample config not detected")
	}
	if cfg.Tools.YTDLPBinary != defaultYTDLPBinary {
		t.Errorf("ytdlp_binary = %q", cfg.Tools.YTDLPBinary)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/x")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, home) {
		t.Errorf("expandPath(~/x) = %q, want prefix %q", got, home)
	}
}
