// Package fetch downloads mod archives over HTTP.
//
// A Fetcher runs one download at a time; a second request while one is
// in flight is rejected with ErrDownloadBusy rather than queued. Files
// land in a temp location and are removed again when the transfer fails,
// so callers never see a half-written archive.
package fetch

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/collin12121212/DewLoader/internal/version"
	"github.com/collin12121212/DewLoader/pkg/archive"
	"github.com/collin12121212/DewLoader/pkg/errors"
	"github.com/collin12121212/DewLoader/pkg/logging"
)

// DefaultTimeout bounds a whole download, connection setup included.
const DefaultTimeout = 30 * time.Second

const tempPattern = "dewloader-download-*"

// Progress reports transfer state. total is -1 when the server does not
// announce a length.
type Progress func(done, total int64)

// Result describes a finished download.
type Result struct {
	// Path is the temp file holding the archive.
	Path string
	// Filename is the name the server or URL suggested for it.
	Filename string
	Size     int64
}

// Fetcher downloads archives with a pooled HTTP client.
type Fetcher struct {
	client *http.Client
	busy   atomic.Bool
}

// New returns a Fetcher whose downloads abort after timeout. A zero or
// negative timeout selects DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				// Mod archives are already compressed.
				DisableCompression: true,
			},
		},
	}
}

// Busy reports whether a download is currently running.
func (f *Fetcher) Busy() bool {
	return f.busy.Load()
}

// Download fetches rawURL into a temp file and suggests a filename for
// it. Non-2xx answers and transport failures leave no file behind.
func (f *Fetcher) Download(ctx context.Context, rawURL string, progress Progress) (*Result, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrDownloadBusy, "a download is already running")
	}
	defer f.busy.Store(false)

	logger := logging.GetLogger("fetch")

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.Newf(errors.ErrInvalidInput, "not a downloadable URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot build request")
	}
	req.Header.Set("User-Agent", "DewLoader/"+version.Version)

	logger.Debug().Str("url", u.String()).Msg("Starting download")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "download failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.ErrHTTPStatus, "server answered %s", resp.Status).
			WithDetail("url", rawURL)
	}

	filename := filenameFrom(resp.Header.Get("Content-Disposition"), u)

	tmp, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot create download file")
	}
	tmpName := tmp.Name()

	written, err := copyWithProgress(tmp, resp.Body, resp.ContentLength, progress)
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, err
	}
	if closeErr != nil {
		_ = os.Remove(tmpName)
		return nil, errors.Wrap(closeErr, errors.ErrFileAccess, "cannot finish download file")
	}

	logger.Info().
		Str("url", u.String()).
		Str("filename", filename).
		Int64("bytes", written).
		Msg("Download complete")
	return &Result{Path: tmpName, Filename: filename, Size: written}, nil
}

// filenameFrom picks a name for the downloaded archive: the server's
// Content-Disposition filename when present, otherwise the last URL path
// segment with ".zip" appended when it lacks an archive extension.
func filenameFrom(disposition string, u *url.URL) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			name := filepath.Base(filepath.FromSlash(params["filename"]))
			if name != "" && name != "." && name != string(filepath.Separator) {
				return name
			}
		}
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "download"
	}
	if !archive.Supported(name) {
		name += ".zip"
	}
	return name
}

// copyWithProgress streams the body to disk in chunks, reporting after
// each chunk. Read failures are network errors, write failures are disk
// errors.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress Progress) (int64, error) {
	buf := make([]byte, 32*1024)
	var done int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return done, errors.Wrap(writeErr, errors.ErrFileAccess, "cannot write download")
			}
			done += int64(n)
			if progress != nil {
				progress(done, total)
			}
		}
		if readErr == io.EOF {
			return done, nil
		}
		if readErr != nil {
			return done, errors.Wrap(readErr, errors.ErrNetwork, "connection interrupted")
		}
	}
}
