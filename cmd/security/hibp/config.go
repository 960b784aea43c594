package hibp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the live Pwned Passwords range endpoint.
const DefaultBaseURL = "https://api.pwnedpasswords.com"

// Config is the single configuration surface for this package.
type Config struct {
	// BaseURL is the range endpoint root, without the /range suffix.
	BaseURL string

	// Timeout bounds one range fetch including retries. A fetch that does
	// not complete in time fails with a NetworkError.
	Timeout time.Duration

	// RetryMax and the wait bounds configure the transport collaborator's
	// retry policy. The protocol core itself never retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// AddPadding asks the service to pad responses with decoy entries and
	// arms the client-side padding floor. Turning it off reduces data
	// usage but lets response size reveal the true suffix count; see
	// app.ValidateSecurityConfig for the startup gate.
	AddPadding bool

	// Mode selects the digest corpus (SHA-1 or NTLM).
	Mode Mode
}

// DefaultConfig returns the baseline configuration for the live service.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      15 * time.Second,
		RetryMax:     3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 10 * time.Second,
		AddPadding:   true,
		Mode:         ModeSHA1,
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - BREACHSCAN_HIBP_BASE_URL
// - BREACHSCAN_HIBP_TIMEOUT
// - BREACHSCAN_HIBP_RETRY_MAX
// - BREACHSCAN_HIBP_RETRY_WAIT_MIN
// - BREACHSCAN_HIBP_RETRY_WAIT_MAX
// - BREACHSCAN_HIBP_ADD_PADDING (true/false)
// - BREACHSCAN_HIBP_MODE (sha1/ntlm)
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_BASE_URL"); ok {
		v = strings.TrimRight(strings.TrimSpace(v), "/")
		if v == "" {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_BASE_URL: empty")
		}
		cfg.BaseURL = v
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_TIMEOUT"); ok {
		d, err := parseDuration(v, time.Second, 5*time.Minute)
		if err != nil {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_RETRY_MAX"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 || n > 10 {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_RETRY_MAX: must be an integer in [0..10]")
		}
		cfg.RetryMax = n
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_RETRY_WAIT_MIN"); ok {
		d, err := parseDuration(v, 100*time.Millisecond, time.Minute)
		if err != nil {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_RETRY_WAIT_MIN: %w", err)
		}
		cfg.RetryWaitMin = d
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_RETRY_WAIT_MAX"); ok {
		d, err := parseDuration(v, 100*time.Millisecond, 5*time.Minute)
		if err != nil {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_RETRY_WAIT_MAX: %w", err)
		}
		cfg.RetryWaitMax = d
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_ADD_PADDING"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_ADD_PADDING: %w", err)
		}
		cfg.AddPadding = b
	}

	if v, ok := os.LookupEnv("BREACHSCAN_HIBP_MODE"); ok {
		m, err := ParseMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("BREACHSCAN_HIBP_MODE: %w", err)
		}
		cfg.Mode = m
	}

	if cfg.RetryWaitMin > cfg.RetryWaitMax {
		cfg.RetryWaitMin = cfg.RetryWaitMax
	}

	return cfg, nil
}

// ParseMode parses a digest mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha1":
		return ModeSHA1, nil
	case "ntlm":
		return ModeNTLM, nil
	default:
		return ModeSHA1, fmt.Errorf("unknown digest mode %q", s)
	}
}

func parseDuration(v string, min, max time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if d < min || d > max {
		return 0, fmt.Errorf("duration %s out of range [%s..%s]", d, min, max)
	}
	return d, nil
}
