// utils/phone.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits so stored numbers and
// incoming numbers compare regardless of formatting.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// PhoneMatchKey returns the trailing 11 digits of a normalized phone.
// Matching on the suffix tolerates country-code variance (e.g. a number
// stored with 55 and dialled without it).
func PhoneMatchKey(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) > 11 {
		return digits[len(digits)-11:]
	}
	return digits
}

// SamePhone reports whether two numbers refer to the same line under the
// trailing-digits rule.
func SamePhone(a, b string) bool {
	ka, kb := PhoneMatchKey(a), PhoneMatchKey(b)
	return ka != "" && ka == kb
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}
