package screenapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"breachscan/cmd/security/hibp"
	"breachscan/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Checker resolves how many times a secret appears in the breach corpus.
type Checker interface {
	CountBreaches(ctx context.Context, secret []byte) (uint64, error)
}

// Metrics receives per-check observations. Implementations must be safe
// for concurrent use.
type Metrics interface {
	ObserveCheck(outcome string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCheck(string, time.Duration) {}

// Handler wires the password screening endpoint to the breach checker.
type Handler struct {
	log *slog.Logger
	cfg Config

	dbEnabled bool
	pool      *pgxpool.Pool

	checker Checker
	policy  password.Config
	metrics Metrics
}

// HandlerOption configures optional screening handler dependencies.
type HandlerOption func(*Handler)

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m Metrics) HandlerOption {
	return func(h *Handler) {
		if h == nil || m == nil {
			return
		}
		h.metrics = m
	}
}

// NewHandler constructs a screening Handler. The pool may be nil; in that
// case auditing and IP throttling are disabled and checks still work.
func NewHandler(log *slog.Logger, pool *pgxpool.Pool, cfg Config, checker Checker, policy password.Config, dbEnabled bool, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if checker == nil {
		return nil, errors.New("screen: nil checker")
	}
	if dbEnabled && pool == nil {
		return nil, errors.New("screen: nil db pool")
	}

	h := &Handler{
		log:       log,
		cfg:       cfg,
		dbEnabled: dbEnabled,
		pool:      pool,
		checker:   checker,
		policy:    policy,
		metrics:   noopMetrics{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	return h, nil
}

// Register wires screening routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/v1/check", h.handleCheck)
}

// ---- handlers ----

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req checkRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	ip := clientIP(r, h.cfg.TrustProxy)
	ua := strings.TrimSpace(r.UserAgent())

	// IP throttling is best effort: a broken audit store must not take
	// the screening path down with it.
	if blocked, retryAfter, err := h.checkIPThrottle(ctx, ip, now); err != nil {
		h.log.Error("screen.check.throttle.fail", "err", err)
	} else if blocked {
		h.auditRateLimited(ctx, ip, ua, retryAfter)
		h.metrics.ObserveCheck("rate_limited", time.Since(now))
		writeRateLimited(w, retryAfter)
		return
	}

	if err := h.policy.Validate(req.Password); err != nil {
		code, msg := policyErrorCode(err)
		h.auditCheck(ctx, code, ip, ua, time.Since(now))
		h.metrics.ObserveCheck(code, time.Since(now))
		writeError(w, http.StatusUnprocessableEntity, code, msg)
		return
	}

	count, err := h.checker.CountBreaches(ctx, []byte(req.Password))
	if err != nil {
		h.writeCheckError(ctx, w, r, err, ip, ua, now)
		return
	}

	h.auditCheck(ctx, "ok", ip, ua, time.Since(now))
	h.metrics.ObserveCheck("ok", time.Since(now))

	writeJSON(w, http.StatusOK, checkResponse{
		Breached: count > 0,
		Count:    count,
	})
}

// writeCheckError maps checker failures to HTTP responses. Errors are
// logged by kind only: upstream error strings can embed the range URL,
// and the URL carries the hash prefix.
func (h *Handler) writeCheckError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, ip net.IP, ua string, start time.Time) {
	var (
		srvErr *hibp.ServerError
		decErr *hibp.DecodeError
		netErr *hibp.NetworkError
	)

	switch {
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away mid-check; nothing left to answer.
		h.metrics.ObserveCheck("canceled", time.Since(start))
		return
	case errors.Is(err, hibp.ErrInsufficientPadding):
		h.log.Error("screen.check.upstream.fail", "kind", "padding")
		h.auditCheck(ctx, "upstream_padding", ip, ua, time.Since(start))
		h.metrics.ObserveCheck("upstream_padding", time.Since(start))
		writeError(w, http.StatusBadGateway, "upstream_padding", "breach data source returned an unpadded response")
	case errors.As(err, &decErr):
		h.log.Error("screen.check.upstream.fail", "kind", "decode", "line", decErr.Line)
		h.auditCheck(ctx, "upstream_decode", ip, ua, time.Since(start))
		h.metrics.ObserveCheck("upstream_decode", time.Since(start))
		writeError(w, http.StatusBadGateway, "upstream_decode", "breach data source returned a malformed response")
	case errors.As(err, &srvErr):
		h.log.Error("screen.check.upstream.fail", "kind", "status", "status", srvErr.StatusCode)
		h.auditCheck(ctx, "upstream_status", ip, ua, time.Since(start))
		h.metrics.ObserveCheck("upstream_status", time.Since(start))
		writeError(w, http.StatusBadGateway, "upstream_status", "breach data source returned an error")
	case errors.As(err, &netErr):
		h.log.Error("screen.check.upstream.fail", "kind", "network")
		h.auditCheck(ctx, "upstream_unreachable", ip, ua, time.Since(start))
		h.metrics.ObserveCheck("upstream_unreachable", time.Since(start))
		writeError(w, http.StatusGatewayTimeout, "upstream_unreachable", "breach data source unreachable")
	default:
		h.log.Error("screen.check.upstream.fail", "kind", "unknown")
		h.auditCheck(ctx, "upstream_unreachable", ip, ua, time.Since(start))
		h.metrics.ObserveCheck("upstream_unreachable", time.Since(start))
		writeError(w, http.StatusGatewayTimeout, "upstream_unreachable", "breach data source unreachable")
	}
}

func policyErrorCode(err error) (code, msg string) {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return "password_too_short", "password is too short"
	case errors.Is(err, password.ErrPasswordTooLong):
		return "password_too_long", "password is too long"
	case errors.Is(err, password.ErrWeakPassword):
		return "weak_password", "password matches a trivially weak pattern"
	default:
		return "invalid_request", "password rejected by policy"
	}
}
