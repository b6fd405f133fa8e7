package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
}

// Naming controls how archive directories are named within the library.
type Naming struct {
	Streamer      string `toml:"streamer"`
	Platform      string `toml:"platform"`
	Section       string `toml:"section"`
	IDPrefix      string `toml:"id_prefix"`
	LocalIDPrefix string `toml:"local_id_prefix"`
}

// Tools contains configuration for the external download tool and the media
// toolchain it depends on.
type Tools struct {
	YTDLPBinary string `toml:"ytdlp_binary"`
	// FFmpegDir, when set, is prepended to PATH for yt-dlp child processes
	// only; the process environment is never mutated.
	FFmpegDir           string `toml:"ffmpeg_dir"`
	ConcurrentFragments int    `toml:"concurrent_fragments"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vodarc.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Naming  Naming  `toml:"naming"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vodarc/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vodarc.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	expandedLibrary, err := expandPath(c.Paths.LibraryDir)
	if err != nil {
		return err
	}
	c.Paths.LibraryDir = expandedLibrary

	if strings.TrimSpace(c.Tools.FFmpegDir) != "" {
		expandedFFmpeg, err := expandPath(c.Tools.FFmpegDir)
		if err != nil {
			return err
		}
		c.Tools.FFmpegDir = expandedFFmpeg
	}

	c.Naming.Streamer = strings.TrimSpace(c.Naming.Streamer)
	c.Naming.Platform = strings.TrimSpace(c.Naming.Platform)
	c.Naming.Section = strings.TrimSpace(c.Naming.Section)
	c.Tools.YTDLPBinary = strings.TrimSpace(c.Tools.YTDLPBinary)
	return nil
}

// OutputRoot returns the directory under which archive directories are
// created: <library_dir>/<streamer>/<platform>/<section>.
func (c *Config) OutputRoot() string {
	return filepath.Join(c.Paths.LibraryDir, c.Naming.Streamer, c.Naming.Platform, c.Naming.Section)
}

// EnsureDirectories creates the output root when missing.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.OutputRoot(), 0o755); err != nil {
		return fmt.Errorf("create output root %q: %w", c.OutputRoot(), err)
	}
	return nil
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
