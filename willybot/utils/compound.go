package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

// SplitCompound splits a "A::B::C" argument into between min and max
// trimmed parts.
func SplitCompound(arg string, min, max int) ([]string, error) {
	parts := strings.Split(arg, config.CompoundSeparator)
	if len(parts) < min || len(parts) > max {
		if min == max {
			return nil, database.NewValidationError("arguments", "expected %d parts separated by %q, got %d", min, config.CompoundSeparator, len(parts))
		}
		return nil, database.NewValidationError("arguments", "expected %d to %d parts separated by %q, got %d", min, max, config.CompoundSeparator, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// ParseTier reads a decimal tier between 1 and max.
func ParseTier(s string, max models.Tier) (models.Tier, error) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, database.NewValidationError("tier", "%q is not a number", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(models.TierEasy) || n > int(max) {
		return 0, database.NewValidationError("tier", "must be between 1 and %d", int(max))
	}
	return models.Tier(n), nil
}

var expiryUnits = map[byte]time.Duration{
	'H': time.Hour,
	'D': 24 * time.Hour,
	'W': 7 * 24 * time.Hour,
	'M': 30 * 24 * time.Hour,
}

// ParseExpiry reads a quest deadline. Either an absolute unix timestamp, or
// a relative "<n><unit>" of one or two digits and a unit of H, D, W or M
// (30 days). The result must lie strictly after now.
func ParseExpiry(s string, now time.Time) (int64, error) {
	s = strings.TrimSpace(s)

	var expires int64
	switch {
	case isDigits(s):
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, database.NewValidationError("expiry", "%q is out of range", s)
		}
		expires = v
	case len(s) == 2 || len(s) == 3:
		unit, ok := expiryUnits[strings.ToUpper(s[len(s)-1:])[0]]
		count := s[:len(s)-1]
		if !ok || !isDigits(count) {
			return 0, database.NewValidationError("expiry", "could not understand %q", s)
		}
		n, _ := strconv.Atoi(count)
		expires = now.Add(time.Duration(n) * unit).Unix()
	default:
		return 0, database.NewValidationError("expiry", "could not understand %q", s)
	}

	if expires <= now.Unix() {
		return 0, database.NewValidationError("expiry", "must be in the future")
	}
	return expires, nil
}
