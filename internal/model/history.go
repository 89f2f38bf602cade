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
	"encoding/json"
	"fmt"
	"time"
)

// blocksPerDay is 96 quarter-hour blocks (00:00, 00:15, ..., 23:45).
const blocksPerDay = 96

// HistoryGrid maps WeekDay to 96 quarter-hour blocks, each an optional
// recorded temperature. A nil entry means "never recorded".
type HistoryGrid struct {
	days [7]map[string]*string // raw string to survive JSON float imprecision
}

// NewHistoryGrid returns an empty grid with all 96 blocks per day present
// and null.
func NewHistoryGrid() *HistoryGrid {
	g := &HistoryGrid{}
	for d := 0; d < 7; d++ {
		g.days[d] = make(map[string]*string, blocksPerDay)
		for b := 0; b < blocksPerDay; b++ {
			g.days[d][blockKeyAt(b)] = nil
		}
	}
	return g
}

func blockKeyAt(block int) string {
	return fmt.Sprintf("%02d:%02d", (block*15)/60, (block*15)%60)
}

// Get returns the recorded temperature string at the given weekday and
// "HH:MM" block, and false when nothing is recorded there.
func (g *HistoryGrid) Get(day WeekDay, block string) (string, bool) {
	m := g.days[day]
	if m == nil {
		return "", false
	}
	v, ok := m[block]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Set records value (already-rendered decimal string) at the given weekday
// and "HH:MM" block.
func (g *HistoryGrid) Set(day WeekDay, block string, value string) {
	if g.days[day] == nil {
		g.days[day] = make(map[string]*string, blocksPerDay)
	}
	v := value
	g.days[day][block] = &v
}

// GetAt reads the grid cell for time t, rounding t to the nearest 15-minute
// block first. Day and block are both derived from the rounded time, since
// rounding can roll a late-night timestamp into the next calendar day.
func (g *HistoryGrid) GetAt(t time.Time) (string, bool) {
	rounded := RoundTime(t, DefaultRoundTo)
	day := WeekDayFromGoWeekday(int(rounded.Weekday()))
	block := rounded.Format("15:04")
	return g.Get(day, block)
}

// SetAt records value at the block containing t, rounded to 15 minutes. Day
// and block are both derived from the rounded time, since rounding can roll
// a late-night timestamp into the next calendar day.
func (g *HistoryGrid) SetAt(t time.Time, value string) {
	rounded := RoundTime(t, DefaultRoundTo)
	day := WeekDayFromGoWeekday(int(rounded.Weekday()))
	block := rounded.Format("15:04")
	g.Set(day, block, value)
}

// MarshalJSON renders {"monday": {"00:00": "21.5", ...}, ...}.
func (g *HistoryGrid) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]*string, 7)
	for d := 0; d < 7; d++ {
		out[WeekDay(d).String()] = g.days[d]
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the weekday-keyed document.
func (g *HistoryGrid) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for d := 0; d < 7; d++ {
		name := WeekDay(d).String()
		if blocks, ok := raw[name]; ok {
			g.days[d] = blocks
		} else {
			g.days[d] = make(map[string]*string, blocksPerDay)
		}
	}
	return nil
}
