package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/collin12121212/DewLoader/pkg/commands/install"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/fetch"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/paths"
)

// DownloadModOptions defines the options for the DownloadMod command
type DownloadModOptions struct {
	// URL is the archive to download
	URL string
	// ModsDir is the resolved mods directory the mod is installed into
	ModsDir string
	// Fetcher runs the transfer. When nil a one-shot fetcher with Timeout
	// is used; the GUI passes its own so the busy guard spans the app.
	Fetcher *fetch.Fetcher
	// Timeout bounds the transfer when Fetcher is nil
	Timeout time.Duration
	// KeepCopy saves the archive to the user's Downloads folder
	KeepCopy bool
	// Progress receives transfer updates
	Progress fetch.Progress
}

// DownloadModResult carries the transfer stats and the install outcome
type DownloadModResult struct {
	Filename string
	Size     int64
	// SavedTo is the kept archive copy, empty unless KeepCopy was set
	SavedTo string
	Install *install.InstallModsResult
	Message string
}

// DownloadMod fetches an archive and installs it. The downloaded file is
// removed afterwards unless KeepCopy stashed it in the Downloads folder,
// where it survives even a failed install so the user can retry by hand.
func DownloadMod(ctx context.Context, opts DownloadModOptions) (*DownloadModResult, error) {
	logger := logging.GetLogger("commands.download")
	logger.Debug().
		Str("url", opts.URL).
		Str("modsDir", opts.ModsDir).
		Bool("keepCopy", opts.KeepCopy).
		Msg("Starting download command")

	if opts.ModsDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no mods directory to install into")
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(opts.Timeout)
	}

	transfer, err := fetcher.Download(ctx, opts.URL, opts.Progress)
	if err != nil {
		return nil, err
	}

	// The temp file carries a random name; the archive stem decides the
	// mod folder name for loose-file archives, so give it its real one.
	archivePath := filepath.Join(filepath.Dir(transfer.Path), transfer.Filename)
	if err := os.Rename(transfer.Path, archivePath); err != nil {
		_ = os.Remove(transfer.Path)
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot name downloaded archive")
	}
	defer func() { _ = os.Remove(archivePath) }()

	result := &DownloadModResult{
		Filename: transfer.Filename,
		Size:     transfer.Size,
	}

	if opts.KeepCopy {
		saved := filepath.Join(paths.DownloadsDir(), transfer.Filename)
		if err := copyFile(archivePath, saved); err != nil {
			logger.Warn().Err(err).Str("path", saved).Msg("Could not keep a download copy")
		} else {
			result.SavedTo = saved
			logger.Info().Str("path", saved).Msg("Download copy kept")
		}
	}

	installResult, err := install.InstallMods(install.InstallModsOptions{
		ModsDir:  opts.ModsDir,
		Archives: []string{archivePath},
	})
	result.Install = installResult
	if err != nil {
		return result, err
	}

	result.Message = installResult.Message
	logger.Info().
		Str("filename", transfer.Filename).
		Int64("bytes", transfer.Size).
		Msg("Download command completed")
	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
