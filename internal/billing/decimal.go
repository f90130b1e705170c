package billing

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is an exact decimal number for money and display arithmetic.
type Decimal struct {
	value apd.Decimal
}

func ctx() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfUp
	return c
}

func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{value: d}, nil
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

// NewDecimalFromFloat converts via the shortest decimal representation of f.
func NewDecimalFromFloat(f float64) Decimal {
	d, err := NewDecimal(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		// FormatFloat always yields a valid decimal string
		panic(err)
	}
	return d
}

func (d Decimal) String() string {
	return d.value.String()
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	ctx().Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	ctx().Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}

func (d Decimal) Div(other Decimal) Decimal {
	var result apd.Decimal
	ctx().Quo(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Round quantizes to the given number of decimal places, half up.
func (d Decimal) Round(places int32) Decimal {
	var result apd.Decimal
	ctx().Quantize(&result, &d.value, -places)
	return Decimal{value: result}
}
