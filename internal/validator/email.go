package validator

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const MinPasswordLen = 6

// ValidEmail applies a loose something@something.tld check.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StrongPassword only enforces a minimum length, counted in runes.
func StrongPassword(pw string) bool {
	return len([]rune(pw)) >= MinPasswordLen
}
