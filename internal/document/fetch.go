package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTransport indicates a remote PDF fetch failed (network error, HTTP
// status, or timeout).
var ErrTransport = errors.New("fetching PDF failed")

// maxDownloadSize bounds how much of a remote response is read (64 MiB).
// Protects against unbounded downloads from a mistyped URL.
const maxDownloadSize = 64 << 20

// Fetcher downloads PDF documents by URL.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher whose requests abort after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Download fetches raw PDF bytes from url.
// Any transport failure, timeout, or non-2xx status wraps ErrTransport.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrTransport, maxDownloadSize)
	}

	return data, nil
}
