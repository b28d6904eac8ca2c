// Package util provides shared utility functions used across the application.
package util

import (
	"strings"
)

// StripHash removes the # prefix from a hex colour string.
// Only one leading hash is removed and case is left untouched.
func StripHash(hex string) string {
	return strings.TrimPrefix(hex, "#")
}
