package entity

import "strings"

// NormalizePhoneNumber reduces a phone number to its digits and prefixes a
// country code: 01XXXXXXXXX becomes +8801XXXXXXXXX, 8801XXXXXXXXX becomes
// +8801XXXXXXXXX, anything else is returned as "+" followed by its digits.
// A blank input yields "".
func NormalizePhoneNumber(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	digits := Digits(phone)
	switch {
	case strings.HasPrefix(digits, "01") && len(digits) == 11:
		return "+88" + digits
	case strings.HasPrefix(digits, "8801") && len(digits) == 13:
		return "+" + digits
	default:
		return "+" + digits
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
