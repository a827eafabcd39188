package utils

import "strings"

// NormalizePhone brings a free-form Russian phone number to the canonical
// +7XXXXXXXXXX form. Accepts 8/7-prefixed 11-digit numbers and bare
// 10-digit numbers; everything else is rejected.
func NormalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 11 && (d[0] == '7' || d[0] == '8'):
		return "+7" + d[1:], true
	case len(d) == 10:
		return "+7" + d, true
	default:
		return "", false
	}
}
