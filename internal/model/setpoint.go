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

package model

import "thermocore/internal/decimal"

// MinTemperature and MaxTemperature bound every accepted setpoint. The
// control loop also ignores sensor readings below MinTemperature.
var (
	MinTemperature = decimal.FromInt(0)
	MaxTemperature = decimal.FromInt(35)

	four = decimal.FromInt(4)
	two  = decimal.FromInt(2)
)

// SetpointRange is an ordered pair (Low, High) with MIN <= Low <= High <= MAX.
type SetpointRange struct {
	Low  decimal.D9
	High decimal.D9
}

// ValidateTemperature reports whether v lies within [MinTemperature, MaxTemperature].
func ValidateTemperature(v decimal.D9) error {
	if v.LessThan(MinTemperature) {
		return NewValidationError("temperature cannot be below " + MinTemperature.String())
	}
	if v.GreaterThan(MaxTemperature) {
		return NewValidationError("temperature cannot be above " + MaxTemperature.String())
	}
	return nil
}

// NewSetpointRange validates and constructs a SetpointRange. On failure it
// returns the zero value and an error; callers MUST leave the previous range
// intact rather than applying the zero value.
func NewSetpointRange(low, high decimal.D9) (SetpointRange, error) {
	if high.LessThan(low) {
		return SetpointRange{}, NewValidationError("high must not be below low")
	}
	if err := ValidateTemperature(low); err != nil {
		return SetpointRange{}, err
	}
	if err := ValidateTemperature(high); err != nil {
		return SetpointRange{}, err
	}
	return SetpointRange{Low: low, High: high}, nil
}

// Equilibrium is the target temperature within the range, biased toward High:
// (low+high)/2 + (high-low)/4.
func (r SetpointRange) Equilibrium() decimal.D9 {
	sum := r.Low.Add(r.High)
	bias := r.High.Sub(r.Low).Div(four)
	return sum.Div(two).Add(bias)
}
