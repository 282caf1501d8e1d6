package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
	"github.com/collin12121212/DewLoader/pkg/manifest"
	"github.com/collin12121212/DewLoader/pkg/paths"
)

// stagingPattern names in-progress copies inside the mods dir. The dot
// prefix keeps them out of registry scans while they exist.
const stagingPattern = ".dew-staging-*"

// Names that are packaging noise, never mod content.
var junkNames = map[string]bool{
	"__macosx":    true,
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// InstalledMod describes one mod folder an install produced.
type InstalledMod struct {
	Name        string
	Path        string
	HasManifest bool
}

// InstallResult reports what an install did.
type InstallResult struct {
	Archive string
	Mods    []InstalledMod
}

// MissingManifests returns the installed folders without a manifest.json,
// which usually means the archive was not a SMAPI mod.
func (r *InstallResult) MissingManifests() []string {
	var names []string
	for _, m := range r.Mods {
		if !m.HasManifest {
			names = append(names, m.Name)
		}
	}
	return names
}

// Install unpacks the archive at archivePath and moves its top-level mod
// folder(s) into modsDir. A well-formed archive with a single root folder
// yields exactly one new directory with that folder's name; an archive of
// loose files yields one directory named after the archive. An existing
// mod of the same name is replaced, but only after its replacement has
// been fully staged. On any failure modsDir is left unchanged and all
// scratch state is removed.
func Install(archivePath, modsDir string) (*InstallResult, error) {
	logger := logging.GetLogger("archive")
	defer logging.LogOperationStart(logger, "install")()

	format, err := DetectFormat(archivePath)
	if err != nil {
		return nil, err
	}
	if err := verifySignature(archivePath, format); err != nil {
		return nil, err
	}
	if err := checkWritable(modsDir); err != nil {
		return nil, err
	}

	scratch, err := paths.NewScratchDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot create scratch dir")
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	if err := Extract(archivePath, format, scratch); err != nil {
		return nil, err
	}

	roots, err := modRoots(scratch, archiveStem(archivePath))
	if err != nil {
		return nil, err
	}

	staged, err := stageAll(roots, modsDir)
	if err != nil {
		for _, s := range staged {
			_ = os.RemoveAll(s.dir)
		}
		return nil, err
	}

	result := &InstallResult{Archive: filepath.Base(archivePath)}
	for _, s := range staged {
		final := filepath.Join(modsDir, s.name)
		if _, statErr := os.Lstat(final); statErr == nil {
			if err := os.RemoveAll(final); err != nil {
				_ = os.RemoveAll(s.dir)
				return result, errors.Wrapf(err, errors.ErrFileAccess,
					"cannot replace existing mod %s", s.name)
			}
		}
		if err := os.Rename(s.dir, final); err != nil {
			_ = os.RemoveAll(s.dir)
			return result, errors.Wrapf(err, errors.ErrFileAccess,
				"cannot move %s into mods folder", s.name)
		}
		result.Mods = append(result.Mods, InstalledMod{
			Name:        s.name,
			Path:        final,
			HasManifest: manifest.Exists(final),
		})
		logger.Info().Str("mod", s.name).Str("archive", result.Archive).Msg("Mod installed")
	}
	return result, nil
}

// verifySignature cross-checks the extension against the file's magic
// bytes. An unreadable file fails; an unknown signature is allowed
// through and left to the extractor to judge.
func verifySignature(archivePath string, format Format) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read archive %s", archivePath)
	}
	defer func() { _ = f.Close() }()

	sniffed, ok := SniffFormat(f)
	if ok && sniffed != format {
		return errors.Newf(errors.ErrUnsupportedFormat,
			"extension says %s but content looks like %s", format, sniffed).
			WithDetail("path", archivePath)
	}
	return nil
}

// checkWritable probes the destination with a temp file so permission
// problems surface before extraction work starts.
func checkWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrFileAccess, "mods folder is not a directory: %s", dir)
	}
	probe, err := os.CreateTemp(dir, ".dew-probe-*")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "mods folder is not writable: %s", dir)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// modRoots decides which extracted entries become mod folders. Archives
// with loose files at the root are treated as a single mod named after
// the archive; otherwise every non-junk top-level directory is a mod.
func modRoots(scratch, stem string) ([]string, error) {
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read scratch dir")
	}

	var dirs []string
	looseFiles := false
	for _, e := range entries {
		if isJunk(e.Name()) {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(scratch, e.Name()))
		} else {
			looseFiles = true
		}
	}

	if looseFiles {
		// Everything belongs to one mod; gather the scratch content under
		// a folder named after the archive. The dot-prefixed parent keeps
		// the gathering area out of the entry listing above and inside
		// scratch for cleanup.
		if stem == "" {
			stem = "mod"
		}
		root := filepath.Join(scratch, ".wrap", stem)
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot create wrap dir")
		}
		for _, e := range entries {
			if isJunk(e.Name()) {
				continue
			}
			if err := os.Rename(filepath.Join(scratch, e.Name()), filepath.Join(root, e.Name())); err != nil {
				return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot arrange mod folder")
			}
		}
		return []string{root}, nil
	}

	if len(dirs) == 0 {
		return nil, errors.Newf(errors.ErrCorruptArchive, "archive contains no mod content")
	}
	return dirs, nil
}

type stagedMod struct {
	name string
	dir  string
}

// stageAll copies every mod root into a hidden staging dir inside
// modsDir. Nothing visible changes until all copies succeeded.
func stageAll(roots []string, modsDir string) ([]stagedMod, error) {
	var staged []stagedMod
	for _, root := range roots {
		dir, err := os.MkdirTemp(modsDir, stagingPattern)
		if err != nil {
			return staged, errors.Wrap(err, errors.ErrFileAccess, "cannot stage into mods folder")
		}
		staged = append(staged, stagedMod{name: filepath.Base(root), dir: dir})
		if err := copyTree(root, dir); err != nil {
			return staged, err
		}
	}
	return staged, nil
}

// copyTree copies the contents of src into dst across filesystems.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot read extracted content")
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot resolve extracted path")
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if mkErr := os.MkdirAll(target, 0o755); mkErr != nil {
				return errors.Wrapf(mkErr, errors.ErrFileAccess, "cannot create %s", target)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", dst)
	}
	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return errors.Wrapf(copyErr, errors.ErrFileAccess, "cannot copy to %s", dst)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, errors.ErrFileAccess, "cannot finish %s", dst)
	}
	return nil
}

func archiveStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isJunk(name string) bool {
	return junkNames[strings.ToLower(name)] || strings.HasPrefix(name, ".")
}
