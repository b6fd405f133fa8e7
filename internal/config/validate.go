package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateNaming() error {
	if c.Naming.Streamer == "" {
		return errors.New("naming.streamer must be set")
	}
	if c.Naming.Platform == "" {
		return errors.New("naming.platform must be set")
	}
	if c.Naming.Section == "" {
		return errors.New("naming.section must be set")
	}
	if strings.TrimSpace(c.Naming.IDPrefix) == "" {
		return errors.New("naming.id_prefix must be set")
	}
	if strings.TrimSpace(c.Naming.LocalIDPrefix) == "" {
		return errors.New("naming.local_id_prefix must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.YTDLPBinary == "" {
		return errors.New("tools.ytdlp_binary must be set")
	}
	if c.Tools.ConcurrentFragments < 1 {
		return errors.New("tools.concurrent_fragments must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json", "":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
