package hibp

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL=%q want=%q", cfg.BaseURL, DefaultBaseURL)
	}
	if !cfg.AddPadding {
		t.Fatalf("expected AddPadding default true")
	}
	if cfg.Mode != ModeSHA1 {
		t.Fatalf("Mode=%v want=%v", cfg.Mode, ModeSHA1)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BREACHSCAN_HIBP_BASE_URL", "https://mirror.example.com/")
	t.Setenv("BREACHSCAN_HIBP_TIMEOUT", "30s")
	t.Setenv("BREACHSCAN_HIBP_RETRY_MAX", "5")
	t.Setenv("BREACHSCAN_HIBP_ADD_PADDING", "false")
	t.Setenv("BREACHSCAN_HIBP_MODE", "ntlm")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.BaseURL != "https://mirror.example.com" {
		t.Fatalf("BaseURL=%q (trailing slash should be trimmed)", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout=%s want=30s", cfg.Timeout)
	}
	if cfg.RetryMax != 5 {
		t.Fatalf("RetryMax=%d want=5", cfg.RetryMax)
	}
	if cfg.AddPadding {
		t.Fatalf("expected AddPadding false")
	}
	if cfg.Mode != ModeNTLM {
		t.Fatalf("Mode=%v want=%v", cfg.Mode, ModeNTLM)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "empty base url", key: "BREACHSCAN_HIBP_BASE_URL", val: "   "},
		{name: "bad timeout", key: "BREACHSCAN_HIBP_TIMEOUT", val: "soon"},
		{name: "timeout out of range", key: "BREACHSCAN_HIBP_TIMEOUT", val: "1h"},
		{name: "negative retries", key: "BREACHSCAN_HIBP_RETRY_MAX", val: "-1"},
		{name: "bad padding flag", key: "BREACHSCAN_HIBP_ADD_PADDING", val: "maybe"},
		{name: "unknown mode", key: "BREACHSCAN_HIBP_MODE", val: "md5"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := ParseMode(" SHA1 "); err != nil || m != ModeSHA1 {
		t.Fatalf("ParseMode(sha1)=%v,%v", m, err)
	}
	if m, err := ParseMode("ntlm"); err != nil || m != ModeNTLM {
		t.Fatalf("ParseMode(ntlm)=%v,%v", m, err)
	}
	if _, err := ParseMode("md5"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
