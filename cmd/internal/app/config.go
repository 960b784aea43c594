package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// CacheEnabled turns on the in-memory range response cache. CacheTTL
	// bounds how stale a served range body may be.
	CacheEnabled bool
	CacheTTL     time.Duration

	// Security policy:
	// If true, the service may start with response padding disabled.
	// Padding hides the true candidate count from response-size observers,
	// so running without it needs an explicit opt-in.
	AllowUnpaddedRanges bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("BREACHSCAN_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("BREACHSCAN_LOG_LEVEL", "info"),
		LogFormat: EnvString("BREACHSCAN_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("BREACHSCAN_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("BREACHSCAN_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("BREACHSCAN_HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       EnvDuration("BREACHSCAN_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("BREACHSCAN_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("BREACHSCAN_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("BREACHSCAN_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("BREACHSCAN_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("BREACHSCAN_READINESS_REQUIRE_DB", false),

		CacheEnabled: EnvBool("BREACHSCAN_CACHE_ENABLED", false),
		CacheTTL:     EnvDuration("BREACHSCAN_CACHE_TTL", 30*time.Minute),

		AllowUnpaddedRanges: EnvBool("BREACHSCAN_ALLOW_UNPADDED_RANGES", false),
	}
}
