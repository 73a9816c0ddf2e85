package tableparse

import (
	"regexp"
	"strconv"
	"strings"
)

var sanitizeRe = regexp.MustCompile(`[^0-9.\-]`)

// parseNumber strips every character except digits, '.' and '-' and parses
// the remainder. A token with no digits left is unparsable.
func parseNumber(tok string) (float64, bool) {
	s := sanitizeRe.ReplaceAllString(tok, "")
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// isNumericToken reports whether the token is purely numeric: digits with
// optional sign, decimal point, and thousands separators.
func isNumericToken(tok string) bool {
	if !strings.ContainsAny(tok, "0123456789") {
		return false
	}
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return true
}
