package install

import (
	"fmt"
	"strings"

	"github.com/collin12121212/DewLoader/pkg/archive"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
)

// InstallModsOptions defines the options for the InstallMods command
type InstallModsOptions struct {
	// ModsDir is the resolved mods directory archives are installed into
	ModsDir string
	// Archives lists the archive files to install, in order
	Archives []string
}

// ArchiveOutcome records what one archive produced.
type ArchiveOutcome struct {
	Archive string
	Mods    []archive.InstalledMod
	Err     error
}

// InstallModsResult carries per-archive outcomes plus aggregate counts
type InstallModsResult struct {
	Outcomes  []ArchiveOutcome
	Installed int
	Failed    int
	// Warnings lists installed folders that have no manifest.json
	Warnings []string
	Message  string
}

// InstallMods installs every archive into the mods directory. A failing
// archive does not stop the rest; its error is kept in the outcome.
func InstallMods(opts InstallModsOptions) (*InstallModsResult, error) {
	logger := logging.GetLogger("commands.install")
	logger.Debug().
		Str("modsDir", opts.ModsDir).
		Int("archives", len(opts.Archives)).
		Msg("Starting install command")

	if len(opts.Archives) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no archives to install")
	}

	result := &InstallModsResult{}
	var installedNames []string
	for _, archivePath := range opts.Archives {
		installResult, err := archive.Install(archivePath, opts.ModsDir)
		outcome := ArchiveOutcome{Archive: archivePath, Err: err}
		if err != nil {
			logger.Error().Err(err).Str("archive", archivePath).Msg("Install failed")
			result.Failed++
		} else {
			outcome.Mods = installResult.Mods
			result.Installed += len(installResult.Mods)
			for _, m := range installResult.Mods {
				installedNames = append(installedNames, m.Name)
			}
			for _, name := range installResult.MissingManifests() {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s has no manifest.json and may not be a SMAPI mod", name))
			}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	logger.Info().
		Int("installed", result.Installed).
		Int("failed", result.Failed).
		Msg("Install command completed")

	switch {
	case result.Failed == 0:
		result.Message = fmt.Sprintf("Installed: %s", strings.Join(installedNames, ", "))
	case result.Installed > 0:
		result.Message = fmt.Sprintf("Installed %d mod(s), %d archive(s) failed",
			result.Installed, result.Failed)
	default:
		result.Message = "No mods installed"
	}

	if result.Failed > 0 {
		// Single-archive installs surface the archive's own error so the
		// caller can show its message verbatim.
		if len(opts.Archives) == 1 {
			return result, result.Outcomes[0].Err
		}
		return result, errors.Newf(errors.ErrInternal,
			"%d of %d archive(s) failed to install", result.Failed, len(opts.Archives))
	}
	return result, nil
}
