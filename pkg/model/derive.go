package model

import (
	"math"
	"strings"
	"time"
)

const (
	ExpiryExpired      ExpiryState = "expired"
	ExpiryExpiringSoon ExpiryState = "expiring-soon"
	ExpiryNormal       ExpiryState = "normal"
)

// ExpiryState classifies how urgent a domain or credential expiration is.
type ExpiryState string

// ClassifyExpiry buckets an expiration date relative to now. A zero
// expiration means the caller never recorded one and is treated as normal.
func ClassifyExpiry(expiration, now time.Time) ExpiryState {
	if expiration.IsZero() {
		return ExpiryNormal
	}
	if expiration.Before(now) {
		return ExpiryExpired
	}

	days := math.Ceil(expiration.Sub(now).Hours() / 24)
	if days > 0 && days <= 30 {
		return ExpiryExpiringSoon
	}

	return ExpiryNormal
}

// RankTrend returns the sign of the rank movement for a SERP entry.
// Positive means the keyword moved up (lower numeric rank is better),
// negative means it dropped, zero means unchanged or no history.
func RankTrend(previousRank, currentRank int) int {
	if previousRank == 0 {
		return 0
	}
	switch diff := previousRank - currentRank; {
	case diff > 0:
		return 1
	case diff < 0:
		return -1
	}
	return 0
}

const maskRune = "•"

// MaskSecret renders a secret for display. Short secrets are fully
// masked; longer ones keep the last four characters so a user can tell
// keys apart without exposing them.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 8 {
		return strings.Repeat(maskRune, len(r))
	}
	return strings.Repeat(maskRune, 8) + string(r[len(r)-4:])
}
