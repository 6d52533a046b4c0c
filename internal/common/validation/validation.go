package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Telegram username rules: letters, digits, underscores, 5-32 characters.
var telegramUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// NormalizeHandle trims whitespace and strips the optional "@" sigil. A handle
// without the sigil is treated identically.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// ValidateHandle checks that a normalized handle has a resolvable shape.
func ValidateHandle(handle string) error {
	handle = NormalizeHandle(handle)
	if handle == "" {
		return fmt.Errorf("handle cannot be empty")
	}
	if !telegramUsernameRegex.MatchString(handle) {
		return fmt.Errorf("handle must be 5-32 letters, digits or underscores")
	}
	return nil
}
