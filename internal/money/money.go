// Package money holds till amounts as integer minor units (piastres) so that
// discount and remainder arithmetic stays exact across many small edits.
// Conversions to and from operator text go through shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a signed count of minor units. 100 minor units make one major unit.
type Amount int64

const (
	// minorExp is the decimal shift between major and minor units.
	minorExp = 2

	// maxWhole keeps whole*100 well inside int64.
	maxWhole = 1_000_000_000_000
)

// ErrInvalidAmount is returned when operator input is not a decimal amount.
var ErrInvalidAmount = errors.New("money: invalid amount")

var maxMajor = decimal.NewFromInt(maxWhole)

// Parse reads an operator-entered amount. Blank input is zero. Arabic-Indic
// digits and the Arabic decimal separator are accepted alongside ASCII.
func Parse(text string) (Amount, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, nil
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	ascii, ok := normalizeDigits(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if strings.HasPrefix(ascii, ".") {
		ascii = "0" + ascii
	}
	d, err := decimal.NewFromString(ascii)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if d.Exponent() < -minorExp {
		return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidAmount, text)
	}
	if d.GreaterThanOrEqual(maxMajor) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, text)
	}
	if neg {
		d = d.Neg()
	}
	return fromDecimal(d), nil
}

// normalizeDigits maps Arabic-Indic and Persian digits and the Arabic decimal
// separator to ASCII. It fails on any other rune or when no digit is present.
func normalizeDigits(s string) (string, bool) {
	var b strings.Builder
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r == '.' || r == '٫':
			b.WriteByte('.')
			continue
		default:
			return "", false
		}
		digits++
	}
	return b.String(), digits > 0
}

func fromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(minorExp).Round(0).IntPart())
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -minorExp)
}

// FromMajor converts a major-unit float, rounding half away from zero.
func FromMajor(v float64) Amount {
	return fromDecimal(decimal.NewFromFloat(v))
}

// Major returns the amount in major units.
func (a Amount) Major() float64 {
	return a.Decimal().InexactFloat64()
}

// String renders the amount with exactly two decimals and no grouping.
func (a Amount) String() string {
	return a.Decimal().StringFixed(minorExp)
}

// Times multiplies by a whole quantity.
func (a Amount) Times(qty int) Amount {
	return a * Amount(qty)
}

// Prorate returns a*num/den rounded half away from zero. It is used for
// hourly rates charged by the second. den must be positive.
func (a Amount) Prorate(num, den int64) Amount {
	if den <= 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(a)).Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den))
	return Amount(v.Round(0).IntPart())
}

// Min returns the smaller amount.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger amount.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}
