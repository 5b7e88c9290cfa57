package schedule

import (
	"regexp"
	"strings"
)

// Rotation names carry classification markup ("Special", sometimes
// "Rampage") that is stripped for display but kept for classification.
var (
	markerRe     = regexp.MustCompile(`(?i)special|rampage`)
	multiSpaceRe = regexp.MustCompile(`  +`)
)

// IsSpecial reports whether the raw event name marks a special rotation
// slot. The test is a case-insensitive substring match on the literal token
// "special" and always runs against the untrimmed name.
func IsSpecial(name string) bool {
	return strings.Contains(strings.ToLower(name), "special")
}

// DisplayName strips classification markup tokens from a raw event name for
// presentation: "Demon Stragglers Special" -> "Demon Stragglers". Stripping
// is idempotent; classification must use the original name.
func DisplayName(name string) string {
	s := markerRe.ReplaceAllString(name, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
