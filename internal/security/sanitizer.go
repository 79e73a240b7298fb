package security

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy      = bluemonday.StrictPolicy()
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)
)

// MaxInputLength bounds identifiers, codes and free text accepted from clients.
const MaxInputLength = 64

// NormalizeIdentifier trims surrounding whitespace and reports whether what
// is left is a usable telegram id or room id. The value is never shortened.
func NormalizeIdentifier(input string) (string, bool) {
	input = strings.TrimSpace(input)
	return input, ValidIdentifier(input)
}

// NormalizeReferralCode trims a referral code and checks its length. The
// code is otherwise kept exactly as given.
func NormalizeReferralCode(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !utf8.ValidString(input) || strings.ContainsRune(input, 0) {
		return input, false
	}
	return input, utf8.RuneCountInString(input) <= MaxInputLength
}

// SanitizeText strips markup from a free-text field such as a room creator
// and reports whether the result fits MaxInputLength.
func SanitizeText(input string) (string, bool) {
	input = html.UnescapeString(htmlPolicy.Sanitize(input))
	input = strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
	return input, utf8.RuneCountInString(input) <= MaxInputLength
}

// ValidIdentifier reports whether s is usable as a telegram id or room id.
func ValidIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}
