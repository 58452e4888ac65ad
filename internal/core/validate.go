package core

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneChars   = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone accepts digits and the separators " -+()" and requires at
// least 10 digits.
func ValidPhone(s string) bool {
	if !phoneChars.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

// NormalizeVenue folds a venue name for comparison.
func NormalizeVenue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
