package toggle

import (
	"fmt"
	"strings"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

// ToggleModsOptions defines the options for the enable/disable commands
type ToggleModsOptions struct {
	// ModsDir is the resolved mods directory
	ModsDir string
	// Names lists the mods to change, by bare name
	Names []string
}

// ToggleModsResult reports which mods changed state
type ToggleModsResult struct {
	// Changed lists mods whose folder was renamed
	Changed []string
	// Unchanged lists mods already in the requested state
	Unchanged []string
	Message   string
}

// EnableMods enables every named mod. Mods already enabled are reported
// in Unchanged; a missing mod fails the command.
func EnableMods(opts ToggleModsOptions) (*ToggleModsResult, error) {
	return run(opts, "Enabled", (*registry.Registry).Enable)
}

// DisableMods disables every named mod the same way.
func DisableMods(opts ToggleModsOptions) (*ToggleModsResult, error) {
	return run(opts, "Disabled", (*registry.Registry).Disable)
}

// ToggleMod flips one mod and reports its new state.
func ToggleMod(modsDir, name string) (bool, error) {
	logger := logging.GetLogger("commands.toggle")
	nowEnabled, err := registry.New(modsDir).Toggle(name)
	if err != nil {
		return false, err
	}
	logger.Info().Str("mod", name).Bool("enabled", nowEnabled).Msg("Mod toggled")
	return nowEnabled, nil
}

func run(opts ToggleModsOptions, verb string, step func(*registry.Registry, string) (bool, error)) (*ToggleModsResult, error) {
	logger := logging.GetLogger("commands.toggle")
	logger.Debug().
		Str("modsDir", opts.ModsDir).
		Strs("names", opts.Names).
		Str("verb", verb).
		Msg("Starting toggle command")

	if len(opts.Names) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no mod names given")
	}

	r := registry.New(opts.ModsDir)
	result := &ToggleModsResult{}
	for _, name := range opts.Names {
		changed, err := step(r, name)
		if err != nil {
			return result, err
		}
		if changed {
			result.Changed = append(result.Changed, name)
		} else {
			result.Unchanged = append(result.Unchanged, name)
		}
	}

	switch {
	case len(result.Changed) > 0:
		result.Message = fmt.Sprintf("%s: %s", verb, strings.Join(result.Changed, ", "))
	default:
		result.Message = fmt.Sprintf("Already %s: %s",
			strings.ToLower(verb), strings.Join(result.Unchanged, ", "))
	}

	logger.Info().
		Int("changed", len(result.Changed)).
		Int("unchanged", len(result.Unchanged)).
		Msg("Toggle command completed")
	return result, nil
}
