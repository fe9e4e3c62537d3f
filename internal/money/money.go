// Package money holds the fixed-point helpers every monetary value passes
// through. Amounts carry two fractional digits and are stored as int64
// minor units.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/apperr"
)

const (
	Scale        = 2
	MinorPerUnit = 100
)

// MaxAmount is the largest magnitude accepted as an amount or balance
// (15 significant digits).
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// PrecisionError reports an amount with more fractional digits than Scale.
type PrecisionError struct {
	Amount      string
	MaxDecimals int
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("amount %s must have at most %d decimal places", e.Amount, e.MaxDecimals)
}

func (e *PrecisionError) ErrorCode() apperr.Code {
	return apperr.CodeValidation
}

// Normalize rejects amounts carrying more than two significant fractional
// digits or exceeding MaxAmount, and returns the amount rounded to Scale.
// Trailing zeros do not count as precision: 10.500 normalizes to 10.50.
func Normalize(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.Equal(amount.Truncate(Scale)) {
		return decimal.Zero, &PrecisionError{Amount: amount.String(), MaxDecimals: Scale}
	}
	if amount.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, apperr.Validation("amount %s exceeds the maximum of %s", amount.String(), MaxAmount.StringFixed(Scale))
	}
	return Round(amount), nil
}

// Round rounds half away from zero to two fractional digits.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}

// Parse reads a decimal string such as "150", "150.5" or "-12.30" and
// normalizes it.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperr.Validation("amount can't be empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid amount format: %s", s)
	}
	return Normalize(d)
}

// ParsePositive is Parse plus a strictly-positive check, used for the amount
// of a transfer or exchange.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.Validation("amount must be greater than 0")
	}
	return d, nil
}

func Format(amount decimal.Decimal) string {
	return Round(amount).StringFixed(Scale)
}

// ToMinor converts a normalized amount into minor units (cents).
func ToMinor(amount decimal.Decimal) int64 {
	return Round(amount).Shift(Scale).IntPart()
}

func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}
