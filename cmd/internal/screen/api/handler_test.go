package screenapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"breachscan/cmd/security/hibp"
	"breachscan/cmd/security/password"
)

type stubChecker struct {
	count uint64
	err   error

	mu      sync.Mutex
	secrets []string
}

func (s *stubChecker) CountBreaches(_ context.Context, secret []byte) (uint64, error) {
	s.mu.Lock()
	s.secrets = append(s.secrets, string(secret))
	s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) ObserveCheck(outcome string, _ time.Duration) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, outcome)
	m.mu.Unlock()
}

func newTestHandler(t *testing.T, checker Checker, opts ...HandlerOption) *Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{MaxBodyBytes: 16 << 10}
	policy := password.DefaultConfig()
	policy.Policy.MinLength = 8

	h, err := NewHandler(log, nil, cfg, checker, policy, false, opts...)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func postCheck(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v (%q)", err, rec.Body.String())
	}
	return resp.Error.Code
}

func TestHandleCheck_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubChecker{})

	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/v1/check", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleCheck_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, &stubChecker{})

	rec := postCheck(t, h, `{"password":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %q", code)
	}
}

func TestHandleCheck_UnknownFieldRejected(t *testing.T) {
	h := newTestHandler(t, &stubChecker{})

	rec := postCheck(t, h, `{"password":"correct horse","debug":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCheck_MissingPassword(t *testing.T) {
	h := newTestHandler(t, &stubChecker{})

	rec := postCheck(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "invalid_request" {
		t.Fatalf("expected invalid_request, got %q", code)
	}
}

func TestHandleCheck_PolicyTooShort(t *testing.T) {
	checker := &stubChecker{}
	h := newTestHandler(t, checker)

	rec := postCheck(t, h, `{"password":"short"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "password_too_short" {
		t.Fatalf("expected password_too_short, got %q", code)
	}
	if len(checker.secrets) != 0 {
		t.Fatalf("policy-rejected password must not reach the checker")
	}
}

func TestHandleCheck_BreachedPassword(t *testing.T) {
	metrics := &recordingMetrics{}
	checker := &stubChecker{count: 10437277}
	h := newTestHandler(t, checker, WithMetrics(metrics))

	rec := postCheck(t, h, `{"password":"correct horse battery staple"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("expected Cache-Control no-store, got %q", cc)
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Breached || resp.Count != 10437277 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != "ok" {
		t.Fatalf("expected one ok observation, got %v", metrics.outcomes)
	}
}

func TestHandleCheck_UnbreachedPassword(t *testing.T) {
	h := newTestHandler(t, &stubChecker{count: 0})

	rec := postCheck(t, h, `{"password":"correct horse battery staple"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Breached || resp.Count != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleCheck_UpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "padding floor",
			err:        hibp.ErrInsufficientPadding,
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_padding",
		},
		{
			name:       "malformed response",
			err:        &hibp.DecodeError{Line: 3},
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_decode",
		},
		{
			name:       "upstream status",
			err:        &hibp.ServerError{StatusCode: http.StatusServiceUnavailable},
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_status",
		},
		{
			name:       "transport failure",
			err:        &hibp.NetworkError{Err: io.ErrUnexpectedEOF},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "upstream_unreachable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, &stubChecker{err: tc.err})

			rec := postCheck(t, h, `{"password":"correct horse battery staple"}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, code)
			}
		})
	}
}

func TestHandleCheck_BodyTooLarge(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{MaxBodyBytes: 64}

	h, err := NewHandler(log, nil, cfg, &stubChecker{}, password.DefaultConfig(), false)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	huge := `{"password":"` + strings.Repeat("a", 256) + `"}`
	rec := postCheck(t, h, huge)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestNewHandler_NilChecker(t *testing.T) {
	if _, err := NewHandler(nil, nil, Config{}, nil, password.DefaultConfig(), false); err == nil {
		t.Fatalf("expected error for nil checker")
	}
}
