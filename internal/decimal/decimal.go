// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package decimal implements a fixed-precision decimal type for thermostat
// arithmetic. Every user-facing temperature, rating, weight and score is a D9:
// nine digits after the decimal point (the number of significant digits is
// not capped), half-up rounding, built only from strings or
// integers so a sensor's raw milli-celsius reading never passes through a
// binary float.
package decimal

import (
	"fmt"
	"math/big"
	"strings"
)

// scaleDigits is the number of fractional digits kept internally. 1e9 covers the
// milli-celsius sensor resolution with headroom for decision-matrix products.
const scaleDigits = 9

var scaleFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(scaleDigits), nil)

// D9 is a fixed-point decimal: unscaled stored as an integer, value = unscaled / 10^9.
type D9 struct {
	unscaled *big.Int
}

// Zero is the additive identity.
var Zero = D9{unscaled: big.NewInt(0)}

// FromString parses a decimal literal such as "21.5" or "-3". It never goes
// through float64, so precision loss never enters the system.
func FromString(s string) (D9, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return D9{}, fmt.Errorf("decimal: empty string")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	intPart, fracPart, hasFrac := s, "", false
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
		hasFrac = true
	}
	if intPart == "" {
		intPart = "0"
	}
	if hasFrac && len(fracPart) > scaleDigits {
		// round half-up on the digit beyond our scale
		roundUp := fracPart[scaleDigits] >= '5'
		fracPart = fracPart[:scaleDigits]
		digits := intPart + fracPart
		n, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return D9{}, fmt.Errorf("decimal: invalid literal %q", s)
		}
		if roundUp {
			n.Add(n, big.NewInt(1))
		}
		if neg {
			n.Neg(n)
		}
		return D9{unscaled: n}, nil
	}

	fracPart = fracPart + strings.Repeat("0", scaleDigits-len(fracPart))
	digits := intPart + fracPart
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return D9{}, fmt.Errorf("decimal: invalid literal %q", s)
	}
	if neg {
		n.Neg(n)
	}
	return D9{unscaled: n}, nil
}

// MustFromString panics on parse error; intended for compile-time constants.
func MustFromString(s string) D9 {
	d, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt builds a whole-number D9.
func FromInt(i int64) D9 {
	return D9{unscaled: new(big.Int).Mul(big.NewInt(i), scaleFactor)}
}

// FromMilli builds a D9 from a raw milli-unit integer (e.g. the sensor's
// milli-celsius reading), matching the 1-wire driver's native resolution.
func FromMilli(milli int64) D9 {
	return D9{unscaled: new(big.Int).Mul(big.NewInt(milli), big.NewInt(1e6))}
}

func (d D9) ensure() *big.Int {
	if d.unscaled == nil {
		return big.NewInt(0)
	}
	return d.unscaled
}

func (d D9) Add(o D9) D9 {
	return D9{unscaled: new(big.Int).Add(d.ensure(), o.ensure())}
}

func (d D9) Sub(o D9) D9 {
	return D9{unscaled: new(big.Int).Sub(d.ensure(), o.ensure())}
}

func (d D9) Neg() D9 {
	return D9{unscaled: new(big.Int).Neg(d.ensure())}
}

// Mul multiplies two D9 values, rounding half-up back to 9 fractional digits.
func (d D9) Mul(o D9) D9 {
	prod := new(big.Int).Mul(d.ensure(), o.ensure())
	return D9{unscaled: divRoundHalfUp(prod, scaleFactor)}
}

// Div divides d by o, rounding half-up to 9 fractional digits. Panics on
// division by zero; callers in this module never divide by a value that can
// be statically shown to be non-zero without checking first.
func (d D9) Div(o D9) D9 {
	if o.ensure().Sign() == 0 {
		panic("decimal: division by zero")
	}
	num := new(big.Int).Mul(d.ensure(), scaleFactor)
	num.Mul(num, scaleFactor)
	return D9{unscaled: divRoundHalfUp(num, new(big.Int).Mul(o.ensure(), scaleFactor))}
}

// divRoundHalfUp computes round_half_up(num/den) for integers, den > 0 assumed
// in magnitude (sign handled via num's sign after the fact).
func divRoundHalfUp(num, den *big.Int) *big.Int {
	if den.Sign() == 0 {
		panic("decimal: division by zero")
	}
	neg := (num.Sign() < 0) != (den.Sign() < 0)
	n := new(big.Int).Abs(num)
	dd := new(big.Int).Abs(den)

	q, r := new(big.Int).QuoRem(n, dd, new(big.Int))
	twice := new(big.Int).Lsh(r, 1)
	if twice.Cmp(dd) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if neg {
		q.Neg(q)
	}
	return q
}

func (d D9) Cmp(o D9) int {
	return d.ensure().Cmp(o.ensure())
}

func (d D9) GreaterThan(o D9) bool { return d.Cmp(o) > 0 }
func (d D9) LessThan(o D9) bool    { return d.Cmp(o) < 0 }
func (d D9) Equal(o D9) bool       { return d.Cmp(o) == 0 }
func (d D9) IsZero() bool          { return d.ensure().Sign() == 0 }
func (d D9) Sign() int             { return d.ensure().Sign() }

// String renders the value with trailing fractional zeros trimmed, keeping at
// least one fractional digit when the value is not a whole number.
func (d D9) String() string {
	n := d.ensure()
	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)

	q, r := new(big.Int).QuoRem(abs, scaleFactor, new(big.Int))
	frac := r.String()
	frac = strings.Repeat("0", scaleDigits-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")

	var sb strings.Builder
	if neg && (q.Sign() != 0 || r.Sign() != 0) {
		sb.WriteByte('-')
	}
	sb.WriteString(q.String())
	if frac != "" {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

// RoundToInt rounds half away from zero to the nearest whole number; used when
// formatting outbound temperature_data payloads.
func (d D9) RoundToInt() int64 {
	return divRoundHalfUp(d.ensure(), scaleFactor).Int64()
}

// MarshalJSON renders the value as a JSON string, preserving precision the
// way the settings/history documents store temperatures.
func (d D9) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare JSON number, since
// some inbound remote-protocol fields arrive unquoted.
func (d *D9) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
