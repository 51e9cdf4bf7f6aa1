// Package gateways provides adapters for network and filesystem effects.
package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads release archives over HTTP
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // Long timeout for large downloads
		},
	}
}

// BuildURL substitutes the {version} placeholder in a URL template
func (f *Fetcher) BuildURL(template, version string) string {
	return strings.ReplaceAll(template, "{version}", version)
}

// FetchArchive downloads the resource at url into dest. Any transport
// failure, non-2xx status, or truncated body is returned as an error;
// there is no retry.
func (f *Fetcher) FetchArchive(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "vendorsync/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	//nolint:gosec // G304: File path dest is function parameter for download destination
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Fewer bytes than Content-Length means the stream was cut off
	// mid-transfer.
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("truncated download: got %d of %d bytes", written, resp.ContentLength)
	}

	fmt.Fprintf(os.Stderr, "Downloaded %s (%d bytes)\n", filepath.Base(dest), written)

	return nil
}
