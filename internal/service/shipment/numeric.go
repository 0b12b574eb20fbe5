package shipment

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// cleanNumber drops grouping separators, spaces and any currency text around the
// digits ("₩3,000", "1,250 원").
func cleanNumber(raw string) string {
	s := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '.'
	})
}

// SanitizeInt parses a user-entered integer. Fractions are truncated. Blank input is
// 0 and ok; anything unparsable or outside the int32 range is 0 and not ok.
func SanitizeInt(raw string) (int, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(cleanNumber(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ParseStock reads the on-hand quantity of an inventory row; unparsable is 0.
func ParseStock(raw string) float64 {
	f, err := strconv.ParseFloat(cleanNumber(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
