// Package money holds the fixed-point currency type and the pure coin and
// revenue-share arithmetic used by the ledger.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount of currency in minor units (1/100 of the currency unit).
type Cents int64

var (
	ErrTooPrecise = errors.New("amount has more than two decimal places")
	ErrTooLarge   = errors.New("amount is too large")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// FromDecimal converts a currency amount such as 10000.01 into cents. It
// refuses to round, so sub-cent input is an error. Amounts that do not fit
// in an int64 are rejected rather than wrapped.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrTooPrecise
	}
	if scaled.GreaterThan(maxCents) || scaled.LessThan(minCents) {
		return 0, ErrTooLarge
	}
	return Cents(scaled.IntPart()), nil
}

// FromUnits converts whole currency units into cents.
func FromUnits(units int64) Cents {
	return Cents(units * 100)
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Percent returns p percent of c rounded toward zero.
func (c Cents) Percent(p int64) Cents {
	return c * Cents(p) / 100
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
