package open

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
)

// OpenFolder shows the given directory in the platform's file browser.
// The viewer is started and left alone; its exit status is not awaited
// because explorer.exe reports failure even when it worked.
func OpenFolder(dir string) error {
	logger := logging.GetLogger("commands.open")

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrModsDirNotFound, "no folder to open at %s", dir)
	}

	cmd := browserCommand(dir)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot open file browser for %s", dir)
	}
	_ = cmd.Process.Release()

	logger.Debug().Str("dir", dir).Str("viewer", cmd.Path).Msg("Opened folder")
	return nil
}

func browserCommand(dir string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", dir)
	case "darwin":
		return exec.Command("open", dir)
	default:
		return exec.Command("xdg-open", dir)
	}
}
