package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetchClient performs the single HTTP GET for a model artifact.
type fetchClient struct {
	// httpClient is used for HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newFetchClient creates a new artifact fetch client.
func newFetchClient(client HTTPClient, logger Logger) *fetchClient {
	return &fetchClient{
		httpClient: client,
		logger:     logger,
	}
}

// fetchTo streams the artifact at url into w with a single GET request.
// The onProgress callback, if non-nil, receives (bytes so far, total expected
// bytes) as the body is read; total is 0 when the server did not supply a
// content length. Returns the number of bytes written.
func (c *fetchClient) fetchTo(ctx context.Context, url string, w io.Writer, onProgress func(completed, total int64)) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %v: %w", url, err, ErrNetworkError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: status %d: %w", url, resp.StatusCode, ErrNetworkError)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	if c.logger != nil {
		c.logger.Debug("transfer started", "url", url, "total_bytes", total)
	}

	var completed int64
	reader := io.Reader(resp.Body)
	if onProgress != nil {
		onProgress(0, total)
		reader = &progressReader{reader: resp.Body, onProgress: func(delta int64) {
			completed += delta
			onProgress(completed, total)
		}}
	}

	written, err := io.Copy(w, reader)
	if err != nil {
		return written, fmt.Errorf("transferring %s: %v: %w", url, err, ErrNetworkError)
	}

	if onProgress != nil {
		onProgress(written, total)
	}
	if c.logger != nil {
		c.logger.Debug("transfer complete", "url", url, "bytes", written)
	}

	return written, nil
}

// progressReader wraps an io.Reader and reports progress as bytes are read.
type progressReader struct {
	reader     io.Reader
	onProgress func(delta int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.onProgress != nil {
		pr.onProgress(int64(n))
	}
	return
}
