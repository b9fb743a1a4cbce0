package matching

import (
	"math"
	"strconv"
	"strings"
)

// formatRand renders a currency amount the way South African lenders
// print it: "R250 000", space-grouped, no cents.
func formatRand(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}

	if neg {
		return "-R" + b.String()
	}
	return "R" + b.String()
}

// formatYears renders a trading-history figure, dropping a trailing
// ".0" so "2 years" reads naturally while "1.5 years" stays precise.
func formatYears(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// roundToThousand rounds to the nearest R1 000.
func roundToThousand(v float64) float64 {
	return math.Round(v/1000) * 1000
}

func pluralYears(v float64) string {
	if v == 1 {
		return "year"
	}
	return "years"
}
