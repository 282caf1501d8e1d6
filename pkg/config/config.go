// Package config loads and saves the dewloader configuration: a single
// flat JSON document at a fixed per-user path. Loading fails soft, so the
// app always gets a usable Config back. The Config is passed explicitly;
// there is no package-level state.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/paths"
)

// GUI theme names accepted in the "theme" key.
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// Config holds everything the app persists. Unknown keys in the file are
// ignored on load; absent keys keep their defaults.
type Config struct {
	// ModsPath is the Stardew Valley Mods directory. Empty means auto-detect.
	ModsPath string `json:"mods_path"`

	// Theme selects the GUI theme: dark, light or system.
	Theme string `json:"theme"`

	// KeepDownloads copies a fetched archive into the user's download
	// directory after a successful install.
	KeepDownloads bool `json:"keep_downloads"`

	// ConfirmDelete asks for confirmation before deleting a mod.
	ConfirmDelete bool `json:"confirm_delete"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Theme:         ThemeDark,
		ConfirmDelete: true,
	}
}

// Load reads the configuration at path. A missing file returns defaults
// with a nil error. An unreadable or malformed file returns defaults plus
// an ErrConfigLoad the caller may surface as a warning; the application
// keeps running either way.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No config file, using defaults")
			return Default(), nil
		}
		return Default(), errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), errors.Wrapf(err, errors.ErrConfigLoad, "malformed config file %s", path)
	}
	cfg.normalize()
	logger.Debug().Str("path", path).Str("modsPath", cfg.ModsPath).Msg("Config loaded")
	return cfg, nil
}

// Save writes cfg to path as indented JSON. The write goes through a temp
// file in the same directory followed by a rename, so a crash mid-write
// never leaves a truncated config behind.
func Save(path string, cfg *Config) error {
	logger := logging.GetLogger("config")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot create config directory %s", dir)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "cannot encode config")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "cannot write config")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "cannot flush config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "cannot close config temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		cleanup = false
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot replace config file %s", path)
	}
	cleanup = false
	if err := os.Chmod(path, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot set permissions on %s", path)
	}

	logger.Debug().Str("path", path).Msg("Config saved")
	return nil
}

// normalize repairs values that would confuse later consumers.
func (c *Config) normalize() {
	switch c.Theme {
	case ThemeDark, ThemeLight, ThemeSystem:
	default:
		c.Theme = ThemeDark
	}
	if c.ModsPath != "" {
		c.ModsPath = paths.ExpandHome(c.ModsPath)
	}
}
