package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const centsPerUnit = 100

// MaxAmount is the largest amount a single expense or budget may hold,
// 9,999,999,999.99. Millions of such amounts still sum inside int64.
const MaxAmount Amount = 999_999_999_999

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a money value in minor units (cents). It is encoded in JSON as a
// plain decimal number so persisted records keep the `"amount": 25.5` shape.
// Precision is two decimals: parsing rounds anything finer to the nearest
// cent.
type Amount int64

// NewAmount builds an Amount from a whole part and cents, e.g. NewAmount(12, 50).
func NewAmount(units, cents int64) Amount {
	return Amount(units*centsPerUnit + cents)
}

func (a Amount) Cents() int64 {
	return int64(a)
}

// Add returns a+b, saturating at the int64 range instead of wrapping.
func (a Amount) Add(b Amount) Amount {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

func (a Amount) Float64() float64 {
	return float64(a) / centsPerUnit
}

// String renders the amount with exactly two decimals: 1250 -> "12.50".
func (a Amount) String() string {
	value := int64(a)
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/centsPerUnit, value%centsPerUnit)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	s := a.String()
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return []byte(s), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" || s == "" {
		*a = 0
		return nil
	}

	parsed, err := parseDecimal(s, true)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = parsed
	return nil
}

// ParseAmount reads a user supplied decimal such as "12.34" or "12,34".
// Only values from 0.01 up to MaxAmount are accepted. A third decimal is
// rounded half-up, so "0.004" rounds to zero and is rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	a, err := parseDecimal(s, false)
	if err != nil {
		return 0, err
	}
	if a <= 0 {
		return 0, ErrInvalidAmount
	}
	return a, nil
}

func parseDecimal(s string, allowSign bool) (Amount, error) {
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, ErrInvalidAmount
		}
		cents := math.Round(f * centsPerUnit)
		if math.Abs(cents) > float64(MaxAmount) {
			return 0, ErrInvalidAmount
		}
		return Amount(cents), nil
	}

	negative := false
	if allowSign && strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > int64(MaxAmount)/centsPerUnit {
		return 0, ErrInvalidAmount
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}

	value := units*centsPerUnit + cents
	if value > int64(MaxAmount) {
		return 0, ErrInvalidAmount
	}
	if negative {
		value = -value
	}
	return Amount(value), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
