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

import "time"

// DefaultRoundTo is the history/tariff block size: 15 minutes.
const DefaultRoundTo = 900 * time.Second

// RoundTime rounds t to the nearest multiple of roundTo seconds since
// midnight, half-away-from-zero. Used for history cell lookup (900s blocks)
// and tariff hour lookup (3600s blocks).
func RoundTime(t time.Time, roundTo time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	elapsed := t.Sub(midnight)

	half := roundTo / 2
	rounded := ((elapsed + half) / roundTo) * roundTo

	return midnight.Add(rounded)
}
