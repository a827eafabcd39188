package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// FormatRubles renders an integer ruble amount with thousands separators,
// e.g. 12500 -> "12 500 ₽". All prices in the system are whole rubles.
func FormatRubles(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	return sign + strings.Join(groups, " ") + " ₽"
}

// Slugify builds the canonical product id: lowercase with every
// non-alphanumeric rune stripped. Works for Cyrillic titles too.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// IsOrderNumber reports whether s already has the canonical order-number
// shape: one letter, a hyphen, 1-5 digits. The daily sequence normally
// stays within four digits; the fifth covers a sequence overflow day.
func IsOrderNumber(s string) bool {
	runes := []rune(s)
	if len(runes) < 3 || len(runes) > 7 {
		return false
	}
	if !unicode.IsLetter(runes[0]) || runes[1] != '-' {
		return false
	}
	for _, r := range runes[2:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatOrderNumberQuery normalizes tracking-search input. An order number
// is one letter (Cyrillic or Latin) followed by 1-5 digits, with or without
// a hyphen: "a123" and "a-123" both become "A-123". Anything that does not
// start with a letter is a phone or name search and passes through as-is.
func FormatOrderNumberQuery(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}

	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return raw
	}

	rest := strings.TrimLeft(string(runes[1:]), "- ")
	if rest == "" || len(rest) > 5 {
		return raw
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return raw
		}
	}

	return string(unicode.ToUpper(runes[0])) + "-" + rest
}
