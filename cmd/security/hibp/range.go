package hibp

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// maxRangeBodyBytes bounds how much of a range response is read. Padded
// responses are tens of kilobytes; anything near this limit is garbage.
const maxRangeBodyBytes = 8 << 20

// RangeFetcher retrieves the raw range response body for a prefix. It is
// the seam between the protocol core and the HTTP transport, so tests can
// substitute an in-memory table.
type RangeFetcher interface {
	FetchRange(ctx context.Context, prefix Prefix) ([]byte, error)
}

// RangeClient fetches ranges from the live endpoint over HTTP. Retry and
// backoff live in the underlying retryable client; connection pooling and
// content-encoding negotiation live in the base transport. The protocol
// core on top of this never retries.
type RangeClient struct {
	httpClient *http.Client
	baseURL    string
	mode       Mode
	addPadding bool
}

// NewRangeClient builds a range client from config.
func NewRangeClient(cfg Config) *RangeClient {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	// Range URLs embed digest prefixes; keep them out of transport logs.
	rc.Logger = nil

	return &RangeClient{
		httpClient: rc.StandardClient(),
		baseURL:    cfg.BaseURL,
		mode:       cfg.Mode,
		addPadding: cfg.AddPadding,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Intended for callers
// that need custom transport behavior (proxies, instrumented clients).
func (c *RangeClient) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// FetchRange performs GET <base>/range/<PREFIX> and returns the raw body.
// Transport failures surface as NetworkError, non-success statuses as
// ServerError.
func (c *RangeClient) FetchRange(ctx context.Context, prefix Prefix) ([]byte, error) {
	url := c.baseURL + "/range/" + prefix.String()
	if c.mode == ModeNTLM {
		url += "?mode=ntlm"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if c.addPadding {
		req.Header.Set("Add-Padding", "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the pooled connection stays reusable.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRangeBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return body, nil
}
