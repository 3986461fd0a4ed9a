package pricing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetcherConfig configures the HTTP fetcher for remote pricing documents.
type FetcherConfig struct {
	Timeout      time.Duration `env:"PRICING_FETCH_TIMEOUT" envDefault:"10s"`        // Timeout is the per-request timeout.
	MaxBodyBytes int64         `env:"PRICING_FETCH_MAX_BYTES" envDefault:"1048576"` // MaxBodyBytes caps the downloaded document size.
}

// HTTPFetcher downloads pricing definitions over HTTP(S).
type HTTPFetcher struct {
	client  *http.Client
	maxBody int64
}

// NewHTTPFetcher creates a fetcher with its own HTTP client.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	return NewHTTPFetcherWithClient(&http.Client{Timeout: cfg.Timeout}, cfg)
}

// NewHTTPFetcherWithClient creates a fetcher using client.
// Useful for custom transports and tests.
func NewHTTPFetcherWithClient(client *http.Client, cfg FetcherConfig) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &HTTPFetcher{client: client, maxBody: maxBody}
}

// Fetch performs a GET request and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, ErrResponseTooLarge
	}

	return body, nil
}
