package internal

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// decimalContext is shared by every arithmetic operation. Rounding is
// half-even so quantized readings match the simulated sensor's rounding.
var decimalContext = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}()

type Decimal struct {
	value apd.Decimal
}

func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal: %q is not finite", s)
	}
	return Decimal{value: d}, nil
}

// MustDecimal is NewDecimal for literals known to be valid.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

// NewDecimalFromFloat64 converts f using its shortest exact representation.
// NaN and infinities are rejected.
func NewDecimalFromFloat64(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, fmt.Errorf("invalid decimal: %v is not finite", f)
	}
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	return Decimal{value: d}, nil
}

// String renders the value in plain notation, never scientific.
func (d Decimal) String() string {
	return d.value.Text('f')
}

// Float64 returns the nearest float64. Values beyond the float64 range
// return an error.
func (d Decimal) Float64() (float64, error) {
	f, err := d.value.Float64()
	if err != nil {
		return 0, fmt.Errorf("decimal %s to float: %w", d, err)
	}
	return f, nil
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) Sign() int {
	return d.value.Sign()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

// Equal compares numerically, so 1.5 and 1.50 are equal.
func (d Decimal) Equal(other Decimal) bool {
	return d.Cmp(other) == 0
}

// Add returns the sum of d and other.
func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	decimalContext.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Sub returns the difference of d and other.
func (d Decimal) Sub(other Decimal) Decimal {
	var result apd.Decimal
	decimalContext.Sub(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Mul returns the product of d and other.
func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	decimalContext.Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Div returns the quotient of d divided by other with trailing zeros
// stripped, so 100/2 renders as "50" rather than at full precision.
// Returns an error instead of a signalling result when other is zero.
func (d Decimal) Div(other Decimal) (Decimal, error) {
	if other.IsZero() {
		return Decimal{}, fmt.Errorf("division by zero")
	}
	var result apd.Decimal
	if _, err := decimalContext.Quo(&result, &d.value, &other.value); err != nil {
		return Decimal{}, fmt.Errorf("division failed: %w", err)
	}
	result.Reduce(&result)
	return Decimal{value: result}, nil
}

// Round returns d rounded half-even to the given number of fractional digits.
// The result always carries exactly that many digits, e.g. Round(1.5, 2) is 1.50.
//
// Returns an error when the rounded value needs more digits than the
// context precision allows.
func (d Decimal) Round(places int32) (Decimal, error) {
	var result apd.Decimal
	if _, err := decimalContext.Quantize(&result, &d.value, -places); err != nil {
		return Decimal{}, fmt.Errorf("rounding %s to %d places: %w", d, places, err)
	}
	return Decimal{value: result}, nil
}
