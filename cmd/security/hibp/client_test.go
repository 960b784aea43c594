package hibp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// SHA1("secret") = E5E9FA1BA31ECD1AE84F75CAAA474F3A663F05F4
const (
	secretPrefix = "E5E9F"
	secretSuffix = "A1BA31ECD1AE84F75CAAA474F3A663F05F4"
)

// tableFetcher serves canned range bodies keyed by prefix and records the
// prefixes it was asked for.
type tableFetcher struct {
	responses map[string][]byte
	err       error
	calls     []string
}

func (f *tableFetcher) FetchRange(ctx context.Context, prefix Prefix) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{Err: err}
	}
	f.calls = append(f.calls, prefix.String())
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.responses[prefix.String()]
	if !ok {
		return nil, &ServerError{StatusCode: 404}
	}
	return body, nil
}

// paddedBody builds a range body with total entries, placing realSuffix
// with count at position pos among deterministic zero-count filler.
func paddedBody(realSuffix string, count uint64, total, pos int) []byte {
	var b strings.Builder
	written := 0
	for i := 0; written < total; i++ {
		if written == pos && realSuffix != "" {
			fmt.Fprintf(&b, "%s:%d\r\n", realSuffix, count)
			realSuffix = ""
			written++
			continue
		}
		fmt.Fprintf(&b, "F%034X:0\r\n", i)
		written++
	}
	return []byte(b.String())
}

func newTestClient(f RangeFetcher, mutate func(*Config)) *Client {
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, WithFetcher(f))
}

func TestClient_CountBreaches_Found(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody(secretSuffix, 42, MinPadding, MinPadding/3),
	}}
	c := newTestClient(fetcher, nil)

	count, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("CountBreaches error: %v", err)
	}
	if count != 42 {
		t.Fatalf("count=%d want=42", count)
	}

	breached, err := c.IsBreached(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("IsBreached error: %v", err)
	}
	if !breached {
		t.Fatalf("expected breached")
	}
}

func TestClient_CountBreaches_Absent(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody("", 0, MinPadding, 0),
	}}
	c := newTestClient(fetcher, nil)

	count, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("expected zero matches to be success, got %v", err)
	}
	if count != 0 {
		t.Fatalf("count=%d want=0", count)
	}

	breached, err := c.IsBreached(context.Background(), []byte("secret"))
	if err != nil || breached {
		t.Fatalf("breached=%v err=%v; want false, nil", breached, err)
	}
}

func TestClient_OnlyPrefixTransmitted(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody("", 0, MinPadding, 0),
	}}
	c := newTestClient(fetcher, nil)

	if _, err := c.CountBreaches(context.Background(), []byte("secret")); err != nil {
		t.Fatalf("CountBreaches error: %v", err)
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != secretPrefix {
		t.Fatalf("fetcher saw %v, want exactly [%s]", fetcher.calls, secretPrefix)
	}
	if len(fetcher.calls[0]) != PrefixLen {
		t.Fatalf("transmitted prefix length %d", len(fetcher.calls[0]))
	}
}

func TestClient_MalformedLine_NoPartialResult(t *testing.T) {
	t.Parallel()

	body := paddedBody(secretSuffix, 42, MinPadding, 0)
	body = append(body, []byte("ZZZZZ\r\n")...)
	fetcher := &tableFetcher{responses: map[string][]byte{secretPrefix: body}}
	c := newTestClient(fetcher, nil)

	count, err := c.CountBreaches(context.Background(), []byte("secret"))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got count=%d err=%v", count, err)
	}
	if decodeErr.Line != MinPadding+1 {
		t.Fatalf("line=%d want=%d", decodeErr.Line, MinPadding+1)
	}
}

func TestClient_ShortResponse_PaddingError(t *testing.T) {
	t.Parallel()

	// Below the floor fails even though one entry matches the suffix.
	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody(secretSuffix, 42, 2, 0),
	}}
	c := newTestClient(fetcher, nil)

	if _, err := c.CountBreaches(context.Background(), []byte("secret")); !errors.Is(err, ErrInsufficientPadding) {
		t.Fatalf("expected ErrInsufficientPadding, got %v", err)
	}
}

func TestClient_PaddingOptOut(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody(secretSuffix, 42, 2, 0),
	}}
	c := newTestClient(fetcher, func(cfg *Config) { cfg.AddPadding = false })

	count, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("CountBreaches error: %v", err)
	}
	if count != 42 {
		t.Fatalf("count=%d want=42", count)
	}
}

func TestClient_WithoutPaddingOption(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody(secretSuffix, 3, 2, 0),
	}}
	c := New(DefaultConfig(), WithFetcher(fetcher), WithoutPadding())

	count, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("CountBreaches error: %v", err)
	}
	if count != 3 {
		t.Fatalf("count=%d want=3", count)
	}
}

func TestClient_WithModeOption(t *testing.T) {
	t.Parallel()

	// MD4(UTF16LE("password")) = 8846F7EAEE8FB117AD06BDD830B7586C
	body := []byte("7EAEE8FB117AD06BDD830B7586C:9\n")
	fetcher := &tableFetcher{responses: map[string][]byte{"8846F": body}}
	c := New(DefaultConfig(), WithFetcher(fetcher), WithMode(ModeNTLM), WithoutPadding())

	count, err := c.CountBreaches(context.Background(), []byte("password"))
	if err != nil {
		t.Fatalf("CountBreaches error: %v", err)
	}
	if count != 9 {
		t.Fatalf("count=%d want=9", count)
	}
}

func TestClient_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	wrapped := errors.New("connection refused")
	fetcher := &tableFetcher{err: &NetworkError{Err: wrapped}}
	c := newTestClient(fetcher, nil)

	_, err := c.CountBreaches(context.Background(), []byte("secret"))
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !errors.Is(err, wrapped) {
		t.Fatalf("expected wrapped transport error to survive, got %v", err)
	}
}

func TestClient_Cancellation(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody("", 0, MinPadding, 0),
	}}
	c := newTestClient(fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CountBreaches(ctx, []byte("secret"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClient_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := &tableFetcher{responses: map[string][]byte{
		secretPrefix: paddedBody(secretSuffix, 7, MinPadding, 100),
	}}
	c := newTestClient(fetcher, nil)

	first, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("first call error: %v", err)
	}
	second, err := c.CountBreaches(context.Background(), []byte("secret"))
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if first != second {
		t.Fatalf("counts differ: %d vs %d", first, second)
	}
}
