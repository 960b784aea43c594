package screenapi

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls screening API behavior and abuse boundaries.
type Config struct {
	// TrustProxy enables X-Forwarded-For / X-Real-IP resolution. Only
	// set it when the service sits behind a proxy that strips client
	// copies of those headers.
	TrustProxy   bool
	MaxBodyBytes int64

	// CheckIPMax requests per CheckIPWindow per client IP. Zero disables
	// throttling. Enforced only when the audit store is available.
	CheckIPMax    int
	CheckIPWindow time.Duration
}

// LoadConfigFromEnv loads screening API config from environment variables
// with safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		TrustProxy:    envBool("BREACHSCAN_SCREEN_TRUST_PROXY", false),
		MaxBodyBytes:  envInt64("BREACHSCAN_SCREEN_MAX_BODY_BYTES", 16<<10), // 16 KiB
		CheckIPMax:    envInt("BREACHSCAN_SCREEN_CHECK_IP_MAX", 60),
		CheckIPWindow: envDuration("BREACHSCAN_SCREEN_CHECK_IP_WINDOW", time.Minute),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 16 << 10
	}

	return cfg
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
