package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"

	"github.com/collin12121212/DewLoader/pkg/errors"
)

// Extract unpacks the archive at src into dest, which must exist. Any
// library-level failure is reported as ErrCorruptArchive; entries that
// would escape dest are rejected the same way.
func Extract(src string, format Format, dest string) error {
	var err error
	switch format {
	case FormatZip:
		err = extractZip(src, dest)
	case Format7z:
		err = extract7z(src, dest)
	case FormatRar:
		err = extractRar(src, dest)
	default:
		return errors.Newf(errors.ErrUnsupportedFormat, "no extractor for format %q", format)
	}
	if err != nil {
		if errors.IsCode(err, errors.ErrCorruptArchive) || errors.IsCode(err, errors.ErrFileAccess) {
			return err
		}
		return errors.Wrapf(err, errors.ErrCorruptArchive, "cannot extract %s", filepath.Base(src))
	}
	return nil
}

func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			target, err := secureJoin(dest, f.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(dest, f.Name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			target, err := secureJoin(dest, f.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", target)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(dest, f.Name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractRar(src, dest string) error {
	r, err := rardecode.OpenReader(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.IsDir {
			target, joinErr := secureJoin(dest, hdr.Name)
			if joinErr != nil {
				return joinErr
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", target)
			}
			continue
		}
		if err := writeEntry(dest, hdr.Name, r); err != nil {
			return err
		}
	}
}

// writeEntry copies one archive entry to its sanitized location under dest.
func writeEntry(dest, name string, r io.Reader) error {
	target, err := secureJoin(dest, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", filepath.Dir(target))
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", target)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// secureJoin resolves an archive entry name below dest, rejecting
// absolute paths and traversal so a hostile archive cannot write outside
// the scratch directory.
func secureJoin(dest, name string) (string, error) {
	// Archive entries use forward slashes; some RAR tools emit backslashes.
	cleaned := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	target := filepath.Join(dest, cleaned)

	base := filepath.Clean(dest)
	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrCorruptArchive,
			"archive entry escapes extraction dir: %s", name)
	}
	return target, nil
}
