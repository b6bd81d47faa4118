// Package fetcher downloads and parses activity snapshot exports from
// HTTP, FTP, CSV, JSON, and XLSX sources.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote snapshot files.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
