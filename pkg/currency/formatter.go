package currency

import (
	"strconv"
)

// RoundToHundred rounds to the nearest 100, half up, the way customer-facing
// prices are shown. Negative amounts round toward positive infinity on a tie.
func RoundToHundred(amount int64) int64 {
	return floorDiv(amount+50, 100) * 100
}

// FormatDisplay rounds to the nearest 100 and groups thousands with dots,
// e.g. 1949950 -> "1.950.000".
func FormatDisplay(amount int64) string {
	return FormatGrouped(RoundToHundred(amount))
}

// FormatGrouped groups thousands with dots without rounding.
func FormatGrouped(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	formatted := addThousandsSeparator(strconv.FormatInt(amount, 10), ".")
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
