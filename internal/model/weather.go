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

import (
	"time"

	"thermocore/internal/decimal"
)

// WeatherSnapshot is the last-fetched outdoor reading.
type WeatherSnapshot struct {
	Temperature     decimal.D9
	TemperatureLow  decimal.D9
	TemperatureHigh decimal.D9
	Humidity        decimal.D9
	ConditionTag    string
	LastUpdated     time.Time
}

// Stale reports whether the snapshot is older than maxAge.
func (w WeatherSnapshot) Stale(now time.Time, maxAge time.Duration) bool {
	if w.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(w.LastUpdated) >= maxAge
}

// ForecastPoint is one element of a short-forecast sequence.
type ForecastPoint struct {
	Time        time.Time
	Temperature decimal.D9
}
