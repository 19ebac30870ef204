// Package fetcher opens the dataset document from a local file, HTTP(S), or
// FTP, and reads the tabular and archived forms it may arrive in.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures the fetchers used by Open.
type Options struct {
	HTTP HTTPOptions
	FTP  FTPOptions
}

// Open returns a reader for source, which is a local path, a file:// URL,
// an http(s):// URL, or an ftp:// URL. The caller must close the reader.
func Open(ctx context.Context, source string, opts Options) (io.ReadCloser, error) {
	if source == "" {
		return nil, eris.New("fetcher: empty source")
	}
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare paths, including Windows drive letters.
		return openFile(source)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return openFile(u.Path)
	case "http", "https":
		return NewHTTPFetcher(opts.HTTP).Download(ctx, source)
	case "ftp":
		return NewFTPFetcher(opts.FTP).Download(ctx, source)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	return f, nil
}
