package ingestion

import (
	"strconv"
	"strings"
)

// ParseInt parses a base-10 integer, tolerating surrounding whitespace and an
// optional sign. It reports ok=false instead of returning an error.
func ParseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat parses a decimal number with '.' as separator. Hexadecimal
// floats ("0x1p3") are rejected. It reports ok=false instead of returning an error.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isHex(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
