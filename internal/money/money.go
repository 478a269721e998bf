// Package money provides exact fixed-point amounts in currency minor units.
//
// All arithmetic happens on int64 minor units (cents for two-decimal
// currencies); decimal strings are parsed and formatted with
// shopspring/decimal only at the boundary. No float64 appears anywhere,
// so share sums compare bit-for-bit.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitScale is the number of decimal places carried by an Amount.
// The engine assumes two-decimal currencies throughout.
const MinorUnitScale = 2

var (
	// ErrPrecision means a decimal string carried more than
	// MinorUnitScale fractional digits.
	ErrPrecision = errors.New("money: amount exceeds minor-unit precision")

	// ErrCurrencyMismatch means two amounts with different currency
	// codes were combined.
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Amount is an exact monetary value: a signed count of minor units plus
// an ISO 4217-style currency code. The zero value is 0 units of the
// empty currency and is only useful as a starting accumulator.
type Amount struct {
	units    int64
	currency string
}

// FromMinorUnits builds an Amount directly from minor units.
func FromMinorUnits(units int64, currency string) Amount {
	return Amount{units: units, currency: currency}
}

// Parse converts an exact decimal string (e.g. "33.34") into an Amount.
// Returns ErrPrecision if the string has more than two decimal places.
func Parse(s, currency string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("money: parse %q: %w", s, err)
	}
	shifted := d.Shift(MinorUnitScale)
	if !shifted.IsInteger() {
		return Amount{}, fmt.Errorf("%w: %q", ErrPrecision, s)
	}
	return Amount{units: shifted.IntPart(), currency: currency}, nil
}

// MinorUnits returns the signed minor-unit count.
func (a Amount) MinorUnits() int64 { return a.units }

// Currency returns the currency code.
func (a Amount) Currency() string { return a.currency }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.units == 0 }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a.units < 0 }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{units: -a.units, currency: a.currency}
}

// Add returns a + b. Returns ErrCurrencyMismatch if the currencies
// differ; an accumulator with the zero value adopts b's currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.currency == "" {
		a.currency = b.currency
	}
	if b.currency != "" && a.currency != b.currency {
		return Amount{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.currency, b.currency)
	}
	return Amount{units: a.units + b.units, currency: a.currency}, nil
}

// Sub returns a - b under the same currency rules as Add.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(b.Neg())
}

// Cmp compares magnitudes: -1 if a < b, 0 if equal, +1 if a > b.
// Comparison ignores currency; callers compare within one currency.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.units < b.units:
		return -1
	case a.units > b.units:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two amounts have the same units and currency.
func (a Amount) Equal(b Amount) bool {
	return a.units == b.units && a.currency == b.currency
}

// String renders the amount as an exact decimal with two places,
// e.g. "33.34".
func (a Amount) String() string {
	return decimal.New(a.units, -MinorUnitScale).StringFixed(MinorUnitScale)
}

// Sum adds a slice of amounts, enforcing a single currency.
func Sum(amounts []Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}
