package remove

import (
	"fmt"
	"strings"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

// RemoveModsOptions defines the options for the RemoveMods command
type RemoveModsOptions struct {
	// ModsDir is the resolved mods directory
	ModsDir string
	// Names lists the mods to delete, by bare name
	Names []string
}

// RemoveModsResult reports what was deleted
type RemoveModsResult struct {
	Removed []string
	Message string
}

// RemoveMods deletes every named mod folder. The caller is responsible
// for confirming with the user first; this command does not ask.
func RemoveMods(opts RemoveModsOptions) (*RemoveModsResult, error) {
	logger := logging.GetLogger("commands.remove")
	logger.Debug().
		Str("modsDir", opts.ModsDir).
		Strs("names", opts.Names).
		Msg("Starting remove command")

	if len(opts.Names) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no mod names given")
	}

	r := registry.New(opts.ModsDir)
	result := &RemoveModsResult{}
	for _, name := range opts.Names {
		if err := r.Delete(name); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, name)
	}

	result.Message = fmt.Sprintf("Deleted: %s", strings.Join(result.Removed, ", "))
	logger.Info().Int("removed", len(result.Removed)).Msg("Remove command completed")
	return result, nil
}
