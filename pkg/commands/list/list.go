package list

import (
	"fmt"

	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/gamedir"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

// ListModsOptions defines the options for the ListMods command
type ListModsOptions struct {
	// Config carries the user's settings, including a configured mods path
	Config *config.Config
	// ModsDir skips resolution and scans this directory when set
	ModsDir string
}

// ListModsResult carries the scanned mods and where they were found
type ListModsResult struct {
	Resolution gamedir.Resolution
	Mods       []registry.Mod
	Enabled    int
	Disabled   int
	// Conflicts counts mods whose enabled and disabled folders both exist
	Conflicts int
	Message   string
}

// ListMods resolves the mods directory and lists what is installed in it.
func ListMods(opts ListModsOptions) (*ListModsResult, error) {
	logger := logging.GetLogger("commands.list")

	resolution := gamedir.Resolution{Path: opts.ModsDir, Source: gamedir.SourceManual}
	if opts.ModsDir == "" {
		resolved, err := gamedir.Resolve(opts.Config)
		if err != nil {
			return nil, err
		}
		resolution = *resolved
	}

	mods, err := registry.New(resolution.Path).Scan()
	if err != nil {
		return nil, err
	}

	result := &ListModsResult{
		Resolution: resolution,
		Mods:       mods,
		Message:    fmt.Sprintf("Found %d mod(s)", len(mods)),
	}
	for _, m := range mods {
		switch {
		case m.Conflict:
			result.Conflicts++
		case m.Enabled:
			result.Enabled++
		default:
			result.Disabled++
		}
	}

	logger.Debug().
		Str("modsDir", resolution.Path).
		Str("source", string(resolution.Source)).
		Int("mods", len(mods)).
		Msg("Listed mods")
	return result, nil
}
