package utils

import "strings"

var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4", "۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeDigits converts Persian and Arabic numerals to ASCII numerals
func NormalizeDigits(input string) string {
	return digitReplacer.Replace(input)
}

// NormalizeCode prepares a code typed by a user for lookup: trimmed,
// ASCII digits, upper case.
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(NormalizeDigits(input)))
}
