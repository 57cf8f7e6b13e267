// Package transport provides the HTTP fetch client for installation pages.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/garrisonhq/garrison/pkg/errors"
)

// DefaultTimeout bounds each page fetch. The source relies on transport
// defaults; a hard per-request cap is still the right thing for an
// unattended batch.
const DefaultTimeout = 15 * time.Second

// userAgent identifies us to the remote origin.
const userAgent = "garrison-sync/1.0 (+https://github.com/garrisonhq/garrison)"

// maxBodySize caps how much of a page we are willing to read.
const maxBodySize = 4 << 20 // 4 MiB

// Client fetches installation pages over HTTP.
type Client struct {
	http *http.Client
}

// New creates a transport client with the default timeout.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewWithHTTPClient creates a transport client around an existing
// http.Client, mainly for tests.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{http: hc}
}

// Fetch retrieves one page and returns its body. A transport failure or a
// non-2xx status returns a typed FetchError; the sync loop records either
// as a fetch failure and leaves the store untouched.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.WrapFetch(url, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/markdown;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.WrapFetch(url, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", errors.WrapFetch(url, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.NewFetchError(url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return string(body), nil
}
