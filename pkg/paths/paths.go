// Package paths provides centralized path handling for dewloader.
// All per-user locations follow the XDG Base Directory specification via
// adrg/xdg, with environment overrides for scripting and tests.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigFile overrides the location of the configuration file.
	EnvConfigFile = "DEWLOADER_CONFIG_FILE"

	// EnvModsDir short-circuits mods directory resolution.
	EnvModsDir = "DEWLOADER_MODS_DIR"
)

// Default directory and file names
const (
	// AppDirName is the directory name for dewloader-specific files
	// under the XDG config and state homes.
	AppDirName = "dewloader"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.json"

	// LogFileName is the name of the log file.
	LogFileName = "dewloader.log"

	// scratchPattern names per-install extraction directories in the
	// system temp dir.
	scratchPattern = "dewloader-extract-*"
)

// ConfigFile returns the path of the configuration file:
// DEWLOADER_CONFIG_FILE when set, else $XDG_CONFIG_HOME/dewloader/config.json.
func ConfigFile() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return ExpandHome(p)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// LogFile returns the path of the log file under the XDG state home.
func LogFile() string {
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// ModsDirOverride returns the DEWLOADER_MODS_DIR value, expanded, or "".
func ModsDirOverride() string {
	if p := os.Getenv(EnvModsDir); p != "" {
		return ExpandHome(p)
	}
	return ""
}

// DownloadsDir returns the user's download directory: the XDG user dir when
// known, else ~/Downloads, else the system temp dir.
func DownloadsDir() string {
	if d := xdg.UserDirs.Download; d != "" {
		return d
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return os.TempDir()
}

// NewScratchDir creates a fresh extraction directory in the system temp
// dir. The caller removes it when done.
func NewScratchDir() (string, error) {
	return os.MkdirTemp("", scratchPattern)
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// Paths it cannot expand are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
