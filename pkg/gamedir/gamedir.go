// Package gamedir resolves the Stardew Valley Mods directory.
//
// Probe order: the DEWLOADER_MODS_DIR override, the configured path, the
// platform's conventional locations, then every Steam library found via
// libraryfolders.vdf. Only an existing directory resolves; the resolver
// never creates one. "Not found" is the signal for the caller to prompt
// the user for a manual selection.
package gamedir

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/paths"
	"github.com/collin12121212/DewLoader/pkg/steam"
)

// Source tells where a resolved mods directory came from.
type Source string

const (
	SourceEnv      Source = "env"
	SourceConfig   Source = "config"
	SourcePlatform Source = "platform"
	SourceSteam    Source = "steam"
	// SourceManual marks a directory the user picked by hand.
	SourceManual Source = "manual"
)

// Resolution is a validated mods directory and its provenance.
type Resolution struct {
	Path   string
	Source Source
}

// Resolve returns the first existing mods directory in probe order, or
// ErrModsDirNotFound. A configured path that no longer exists (unplugged
// drive) falls through to detection instead of failing hard; an explicit
// env override that is missing fails, since silently ignoring it would
// hide a mistake.
func Resolve(cfg *config.Config) (*Resolution, error) {
	logger := logging.GetLogger("gamedir")

	if p := paths.ModsDirOverride(); p != "" {
		if dirExists(p) {
			logger.Debug().Str("path", p).Msg("Mods dir from environment override")
			return &Resolution{Path: p, Source: SourceEnv}, nil
		}
		return nil, errors.Newf(errors.ErrModsDirNotFound,
			"%s points to a missing directory: %s", paths.EnvModsDir, p)
	}

	if cfg != nil && cfg.ModsPath != "" {
		if dirExists(cfg.ModsPath) {
			logger.Debug().Str("path", cfg.ModsPath).Msg("Mods dir from config")
			return &Resolution{Path: cfg.ModsPath, Source: SourceConfig}, nil
		}
		logger.Warn().Str("path", cfg.ModsPath).Msg("Configured mods dir missing, probing defaults")
	}

	for _, candidate := range PlatformCandidates() {
		if dirExists(candidate) {
			logger.Debug().Str("path", candidate).Msg("Mods dir from platform convention")
			return &Resolution{Path: candidate, Source: SourcePlatform}, nil
		}
	}

	for _, candidate := range steam.ModsCandidates() {
		if dirExists(candidate) {
			logger.Debug().Str("path", candidate).Msg("Mods dir from Steam library")
			return &Resolution{Path: candidate, Source: SourceSteam}, nil
		}
	}

	return nil, errors.New(errors.ErrModsDirNotFound,
		"no Stardew Valley Mods folder found; select one manually")
}

// PlatformCandidates returns the conventional mods folder locations for
// the current platform. Existence is not checked.
func PlatformCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return candidates(runtime.GOOS, home, os.Getenv)
}

// candidates is the pure core of PlatformCandidates, split out for tests.
func candidates(goos, home string, getenv func(string) string) []string {
	var list []string
	switch goos {
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			list = append(list, filepath.Join(appData, "StardewValley", "Mods"))
		}
		list = append(list,
			filepath.Join(`C:\`, "Program Files (x86)", "Steam", "steamapps", "common", "Stardew Valley", "Mods"),
			filepath.Join(`C:\`, "Program Files", "Steam", "steamapps", "common", "Stardew Valley", "Mods"),
			filepath.Join(`C:\`, "GOG Games", "Stardew Valley", "Mods"),
		)
	case "darwin":
		steamCommon := filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "common", "Stardew Valley")
		list = append(list,
			filepath.Join(home, ".config", "StardewValley", "Mods"),
			filepath.Join(steamCommon, "Contents", "MacOS", "Mods"),
			filepath.Join(steamCommon, "Mods"),
		)
	default:
		list = append(list,
			filepath.Join(home, ".config", "StardewValley", "Mods"),
			filepath.Join(home, ".local", "share", "Steam", "steamapps", "common", "Stardew Valley", "Mods"),
			filepath.Join(home, ".steam", "steam", "steamapps", "common", "Stardew Valley", "Mods"),
			filepath.Join(home, "GOG Games", "Stardew Valley", "game", "Mods"),
		)
	}
	// Last-resort location the original tool suggested to its users.
	if home != "" {
		list = append(list, filepath.Join(home, "StardewValley", "Mods"))
	}
	return list
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
