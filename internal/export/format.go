package export

import (
	"math"
	"strconv"
)

// FormatWon formats an amount as whole won with thousands separators,
// e.g. "1,234,567 KRW".
func FormatWon(v float64) string {
	return GroupThousands(int64(math.Round(v))) + " KRW"
}

// GroupThousands inserts a comma every three digits.
func GroupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out)
}

// formatMM formats a length in millimetres without trailing zeros.
func formatMM(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + " mm"
}
