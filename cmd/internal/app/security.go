package app

import (
	"errors"

	"breachscan/cmd/security/hibp"
)

// ValidateSecurityConfig enforces the service's security policy at startup.
// Failing fast beats silently serving a weaker configuration: an unpadded
// range lets anyone who can measure response sizes infer how many suffixes
// a prefix bucket really holds.
func ValidateSecurityConfig(cfg Config, hibpCfg hibp.Config) error {
	if !hibpCfg.AddPadding && !cfg.AllowUnpaddedRanges {
		return errors.New("security policy: BREACHSCAN_HIBP_ADD_PADDING=false requires BREACHSCAN_ALLOW_UNPADDED_RANGES=true")
	}
	return nil
}
