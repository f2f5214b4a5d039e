package util

import (
	"strconv"
	"strings"
)

const (
	centsPerUnit = 100
	groupSize    = 3
)

// FormatMoney renders an amount in cents with the given separators:
// FormatMoney(1234567, ",", ".") is "12,345.67".
func FormatMoney(value int64, thousand, decimal string) string {
	var sign string
	// negate as uint64 so math.MinInt64 survives
	abs := uint64(value)
	if value < 0 {
		sign = "-"
		abs = -abs
	}

	units := strconv.FormatUint(abs/centsPerUnit, 10)
	cents := abs % centsPerUnit

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range units {
		if i > 0 && (len(units)-i)%groupSize == 0 {
			b.WriteString(thousand)
		}
		b.WriteRune(digit)
	}
	b.WriteString(decimal)
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(cents, 10))
	return b.String()
}

// FormatAmount renders cents with a currency prefix: "RM 1,234.50". An empty
// currency leaves just the number.
func FormatAmount(currency string, cents int64) string {
	money := FormatMoney(cents, ",", ".")
	if currency == "" {
		return money
	}
	return currency + " " + money
}
