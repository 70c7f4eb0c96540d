package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

// UndefinedText is how an undefined Ratio renders as text
const UndefinedText = "undefined"

var hundred = decimal.NewFromInt(100)

// Ratio is the result of a division that may have had a zero denominator.
// The zero value is undefined.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// Defined wraps a known value
func Defined(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// Undefined returns the undefined marker
func Undefined() Ratio {
	return Ratio{}
}

// Divide returns num/den, undefined when den is zero
func Divide(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return Undefined()
	}
	return Defined(num.Div(den))
}

// DivideInts returns num/den for counts, undefined when den is zero
func DivideInts(num, den int) Ratio {
	return Divide(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den)))
}

// FromFloat wraps a float, undefined for NaN and infinities
func FromFloat(f float64) Ratio {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined()
	}
	return Defined(decimal.NewFromFloat(f))
}

// Percent scales a defined ratio by 100
func (r Ratio) Percent() Ratio {
	if !r.defined {
		return r
	}
	return Defined(r.value.Mul(hundred))
}

// IsDefined reports whether the ratio carries a value
func (r Ratio) IsDefined() bool {
	return r.defined
}

// Value returns the ratio and whether it is defined
func (r Ratio) Value() (decimal.Decimal, bool) {
	return r.value, r.defined
}

// Float64 returns the ratio as a float and whether it is defined
func (r Ratio) Float64() (float64, bool) {
	if !r.defined {
		return 0, false
	}
	return r.value.InexactFloat64(), true
}

// Equal compares two ratios; two undefined ratios are equal
func (r Ratio) Equal(o Ratio) bool {
	if r.defined != o.defined {
		return false
	}
	return !r.defined || r.value.Equal(o.value)
}

// Format renders the value rounded to places, or "undefined"
func (r Ratio) Format(places int32) string {
	if !r.defined {
		return UndefinedText
	}
	return r.value.StringFixed(places)
}

func (r Ratio) String() string {
	if !r.defined {
		return UndefinedText
	}
	return r.value.String()
}

// MarshalJSON encodes a defined ratio as a number and an undefined one as null
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return []byte(r.value.Round(6).String()), nil
}
