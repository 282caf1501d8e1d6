// Package archive installs mod archives into the mods directory.
//
// Supported formats are ZIP, 7Z and RAR, detected by extension and
// verified against the file's magic bytes. Extraction always goes through
// a scratch directory; the live mods folder is only touched once the
// extracted content is fully staged, so a failing archive never leaves
// partial mod directories behind.
package archive

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/collin12121212/DewLoader/pkg/errors"
)

// Format identifies a supported archive container.
type Format string

const (
	FormatZip Format = "zip"
	Format7z  Format = "7z"
	FormatRar Format = "rar"
)

var formatByExt = map[string]Format{
	".zip": FormatZip,
	".7z":  Format7z,
	".rar": FormatRar,
}

// Extensions returns the supported archive extensions, dot included.
func Extensions() []string {
	return []string{".zip", ".7z", ".rar"}
}

// Supported reports whether the path carries a supported archive extension.
func Supported(path string) bool {
	_, ok := formatByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DetectFormat maps a file's extension to its Format.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formatByExt[ext]
	if !ok {
		return "", errors.Newf(errors.ErrUnsupportedFormat,
			"unsupported archive type %q (supported: .zip, .7z, .rar)", ext).
			WithDetail("path", path)
	}
	return format, nil
}

// Magic byte prefixes per container. RAR shares a prefix across v4/v5.
var (
	magicZip  = []byte{'P', 'K', 0x03, 0x04}
	magicZip5 = []byte{'P', 'K', 0x05, 0x06} // empty archive
	magic7z   = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
	magicRar  = []byte{'R', 'a', 'r', '!', 0x1A, 0x07}
)

// SniffFormat inspects leading magic bytes. ok is false when the
// signature matches no supported container.
func SniffFormat(r io.Reader) (Format, bool) {
	head := make([]byte, 8)
	n, _ := io.ReadFull(r, head)
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, magicZip), bytes.HasPrefix(head, magicZip5):
		return FormatZip, true
	case bytes.HasPrefix(head, magic7z):
		return Format7z, true
	case bytes.HasPrefix(head, magicRar):
		return FormatRar, true
	}
	return "", false
}
