package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var ErrMissingDomain = errors.New("domain is required")

// NormalizeHostname lowercases a hostname and checks it sits under a public
// suffix. Subdomains are kept: each hostname is tracked on its own.
func NormalizeHostname(raw string) (string, error) {
	hostname := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if hostname == "" {
		return "", ErrMissingDomain
	}

	if _, err := publicsuffix.EffectiveTLDPlusOne(hostname); err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", raw, err)
	}

	return hostname, nil
}
