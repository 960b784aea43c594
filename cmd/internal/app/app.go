// Package app wires the breachscan server runtime: config, logging, the
// breach checker pipeline, and HTTP routes.
//
// It is intentionally small and deterministic to keep CI gates strict and
// behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	screenapi "breachscan/cmd/internal/screen/api"
	"breachscan/cmd/internal/screen/cache"
	"breachscan/cmd/security/hibp"
	"breachscan/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used when the audit store is not configured.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the breachscan server runtime: it owns the checker pipeline and
// HTTP server wiring.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	checker *hibp.Client
	screen  *screenapi.Handler
	metrics *Metrics
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	hibpCfg, err := hibp.FromEnv()
	if err != nil {
		return nil, err
	}
	if err := ValidateSecurityConfig(cfg, hibpCfg); err != nil {
		return nil, err
	}

	policyCfg, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	st, dbPool, dbEnabled, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics()

	// The cache wraps the default transport fetcher; the checker core never
	// knows it is there.
	var opts []hibp.Option
	if cfg.CacheEnabled {
		rc := cache.New(hibp.NewRangeClient(hibpCfg), cfg.CacheTTL)
		metrics.RegisterCache(rc)
		opts = append(opts, hibp.WithFetcher(rc))
		log.Info("cache.enabled", "ttl", cfg.CacheTTL.String())
	}
	checker := hibp.New(hibpCfg, opts...)

	screenCfg := screenapi.LoadConfigFromEnv()
	screen, err := screenapi.NewHandler(log, dbPool, screenCfg, checker, policyCfg, dbEnabled,
		screenapi.WithMetrics(metrics))
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		checker:   checker,
		screen:    screen,
		metrics:   metrics,
	}, nil
}

// Checker exposes the breach checker for embedding callers.
func (a *App) Checker() *hibp.Client { return a.checker }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.screen, a.metrics)

	handler := WithRequestLogging(WithSecurityHeaders(mux), a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	// Close store resources (pool etc).
	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between the Postgres-backed audit store and no
// persistence at all. Checks work either way; throttling and auditing
// need the database.
func newStore(ctx context.Context, cfg Config, log Logger) (Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.no_audit_store")
		return nopStore{}, nil, false, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, err
	}

	log.Info("db.enabled.postgres_audit_store")

	return dbStore{pool: pool}, pool, true, nil
}

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
