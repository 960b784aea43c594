package hibp

import (
	"context"
	"net/http"
)

// Client checks secrets against the breach corpus. It is stateless across
// calls and safe for concurrent use; the only shared resource is the
// transport's connection pool.
type Client struct {
	cfg     Config
	fetcher RangeFetcher

	httpClient *http.Client
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithFetcher replaces the default HTTP range fetcher. Used by tests and
// by callers that wrap the fetcher (caching, instrumentation).
func WithFetcher(f RangeFetcher) Option {
	return func(c *Client) {
		if c == nil || f == nil {
			return
		}
		c.fetcher = f
	}
}

// WithHTTPClient replaces the HTTP client inside the default fetcher.
// Ignored when WithFetcher is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if c == nil || hc == nil {
			return
		}
		c.httpClient = hc
	}
}

// WithBaseURL overrides the range endpoint root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if c == nil || baseURL == "" {
			return
		}
		c.cfg.BaseURL = baseURL
	}
}

// WithMode selects the digest corpus.
func WithMode(m Mode) Option {
	return func(c *Client) {
		if c == nil {
			return
		}
		c.cfg.Mode = m
	}
}

// WithoutPadding disables response padding and the padding floor. It
// saves data at the cost of letting response size reveal the true suffix
// count; leave padding on unless that trade is understood.
func WithoutPadding() Option {
	return func(c *Client) {
		if c == nil {
			return
		}
		c.cfg.AddPadding = false
	}
}

// New constructs a Client from config.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.fetcher == nil {
		rc := NewRangeClient(c.cfg)
		if c.httpClient != nil {
			rc.SetHTTPClient(c.httpClient)
		}
		c.fetcher = rc
	}

	return c
}

// Fetcher returns the range fetcher the client resolves queries through.
func (c *Client) Fetcher() RangeFetcher { return c.fetcher }

// CountBreaches reports how many times secret appears in the breach
// corpus. A zero count with a nil error means the secret was not found;
// callers must not conflate it with failure.
//
// The pipeline is digest, split, fetch, padding floor, constant-time
// match. Suffix material is wiped on every exit path, including error
// returns and cancellation during the fetch.
func (c *Client) CountBreaches(ctx context.Context, secret []byte) (uint64, error) {
	prefix, suffix := DigestSecret(secret, c.cfg.Mode)
	defer wipe(suffix[:])

	body, err := c.fetcher.FetchRange(ctx, prefix)
	if err != nil {
		return 0, err
	}

	candidates, err := ParseRange(body, c.cfg.Mode.SuffixHexLen())
	if err != nil {
		return 0, err
	}

	if c.cfg.AddPadding {
		if err := EnforcePadding(candidates); err != nil {
			return 0, err
		}
	}

	return MatchCount(suffix, candidates), nil
}

// IsBreached reports whether secret appears in the breach corpus at all.
// Only this final boolean projection branches on the result; the
// underlying candidate scan is the same full constant-time pass as
// CountBreaches.
func (c *Client) IsBreached(ctx context.Context, secret []byte) (bool, error) {
	count, err := c.CountBreaches(ctx, secret)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
