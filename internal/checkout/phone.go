package checkout

import "strings"

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders the raw input progressively as +7 (XXX) XXX-XX-XX.
// Only the extracted digits matter, so re-applying the formatter to its own
// output changes nothing.
func FormatPhone(s string) string {
	cleaned := Digits(s)
	switch n := len(cleaned); {
	case n == 0:
		return ""
	case n <= 1:
		return "+" + cleaned
	case n <= 4:
		return "+7 (" + cleaned[1:]
	case n <= 7:
		return "+7 (" + cleaned[1:4] + ") " + cleaned[4:]
	case n <= 9:
		return "+7 (" + cleaned[1:4] + ") " + cleaned[4:7] + "-" + cleaned[7:]
	default:
		if n > 11 {
			cleaned = cleaned[:11]
		}
		return "+7 (" + cleaned[1:4] + ") " + cleaned[4:7] + "-" + cleaned[7:9] + "-" + cleaned[9:]
	}
}

// ValidPhone reports whether s carries a full number: exactly 11 digits with
// the country code 7 in front.
func ValidPhone(s string) bool {
	cleaned := Digits(s)
	return len(cleaned) == 11 && strings.HasPrefix(cleaned, "7")
}
