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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermocore/internal/decimal"
)

func d(s string) decimal.D9 {
	return decimal.MustFromString(s)
}

func TestNewSetpointRange_RejectsInverted(t *testing.T) {
	_, err := NewSetpointRange(d("23"), d("19"))
	assert.Error(t, err)
}

func TestNewSetpointRange_RejectsOutOfBounds(t *testing.T) {
	_, err := NewSetpointRange(d("-1"), d("22"))
	assert.Error(t, err)

	_, err = NewSetpointRange(d("19"), d("36"))
	assert.Error(t, err)
}

func TestSetpointRange_Equilibrium(t *testing.T) {
	r, err := NewSetpointRange(d("19"), d("23"))
	require.NoError(t, err)
	// (19+23)/2 + (23-19)/4 = 21 + 1 = 22
	assert.Equal(t, "22", r.Equilibrium().String())
}

func TestRoundTime_NearestQuarterHour(t *testing.T) {
	base := time.Date(2026, 7, 30, 14, 7, 0, 0, time.UTC)
	rounded := RoundTime(base, DefaultRoundTo)
	assert.Equal(t, "14:00", rounded.Format("15:04"))

	base = time.Date(2026, 7, 30, 14, 8, 0, 0, time.UTC)
	rounded = RoundTime(base, DefaultRoundTo)
	assert.Equal(t, "14:15", rounded.Format("15:04"))
}

func TestRoundTime_Idempotent(t *testing.T) {
	base := time.Date(2026, 7, 30, 9, 22, 0, 0, time.UTC)
	once := RoundTime(base, DefaultRoundTo)
	twice := RoundTime(once, DefaultRoundTo)
	assert.Equal(t, once, twice)
}

func TestHistoryGrid_SetGetAt(t *testing.T) {
	g := NewHistoryGrid()
	at := time.Date(2026, 7, 27, 8, 0, 0, 0, time.UTC) // Monday
	g.SetAt(at, "21.5")

	v, ok := g.GetAt(at)
	require.True(t, ok)
	assert.Equal(t, "21.5", v)

	_, ok = g.Get(Monday, "09:00")
	assert.False(t, ok)
}

func TestHistoryGrid_SetAtRollsOverIntoNextDayNearMidnight(t *testing.T) {
	g := NewHistoryGrid()
	at := time.Date(2026, 7, 26, 23, 53, 0, 0, time.UTC) // Sunday, rounds to Monday 00:00
	g.SetAt(at, "18.0")

	v, ok := g.GetAt(at)
	require.True(t, ok)
	assert.Equal(t, "18.0", v)

	v, ok = g.Get(Monday, "00:00")
	require.True(t, ok)
	assert.Equal(t, "18.0", v)

	_, ok = g.Get(Sunday, "23:45")
	assert.False(t, ok)
}

func TestHistoryGrid_JSONRoundTrip(t *testing.T) {
	g := NewHistoryGrid()
	at := time.Date(2026, 7, 28, 18, 30, 0, 0, time.UTC) // Tuesday
	g.SetAt(at, "19.75")

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var out HistoryGrid
	require.NoError(t, json.Unmarshal(data, &out))

	v, ok := out.GetAt(at)
	require.True(t, ok)
	assert.Equal(t, "19.75", v)
}

func TestSettings_JSONRoundTripPreservesOrder(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("city", "Montreal"))
	require.NoError(t, s.Set("country_code", "CA"))
	require.NoError(t, s.Set("house_size", 120.5))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out Settings
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, []string{"city", "country_code", "house_size"}, out.Keys())

	v, ok := out.Get("house_size")
	require.True(t, ok)
	assert.Equal(t, 120.5, v)
}

func TestSettings_RejectsDeepNesting(t *testing.T) {
	s := NewSettings()
	err := s.Set("bad", map[string]any{
		"nested": map[string]any{"too": "deep"},
	})
	assert.Error(t, err)
}

func TestSettings_FilteredExcludesPrivateKeys(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("city", "Montreal"))
	require.NoError(t, s.Set("_internal_flag", "true"))

	filtered := s.Filtered()
	_, hasCity := filtered["city"]
	_, hasPrivate := filtered["_internal_flag"]
	assert.True(t, hasCity)
	assert.False(t, hasPrivate)
}

func TestPrettifySettings_IsLosslessForScalarsAndNested(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("house_size", 120.0))
	require.NoError(t, s.Set("comfort", map[string]any{"day": "21", "night": "18"}))
	require.NoError(t, s.Set("_hidden", "nope"))

	pretty := PrettifySettings(s)
	assert.Equal(t, "120", pretty["House Size"])
	assert.Equal(t, "21", pretty["Comfort Day"])
	assert.Equal(t, "18", pretty["Comfort Night"])
	_, hasHidden := pretty["Hidden"]
	assert.False(t, hasHidden)
}

func TestUnprettifySettingName_ScalarRoundTrip(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("house_size", 120.0))

	rawName, rawValue, ok := UnprettifySettingName(s, "House Size", 130.0)
	require.True(t, ok)
	assert.Equal(t, "house_size", rawName)
	assert.Equal(t, 130.0, rawValue)
}

func TestUnprettifySettingName_NestedUpdatesOnlyMatchingSubkey(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("comfort", map[string]any{"day": "21", "night": "18"}))

	rawName, rawValue, ok := UnprettifySettingName(s, "Comfort Night", "17")
	require.True(t, ok)
	assert.Equal(t, "comfort", rawName)

	updated, ok := rawValue.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "17", updated["night"])
	assert.Equal(t, "21", updated["day"])
}

func TestUnprettifySettingName_UnknownNameIgnored(t *testing.T) {
	s := NewSettings()
	require.NoError(t, s.Set("house_size", 120.0))

	_, _, ok := UnprettifySettingName(s, "Does Not Exist", "1")
	assert.False(t, ok)
}

func TestParseMode_RoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeOff, ModeAuto, ModeHeat, ModeCool} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestParseMode_UnknownIsError(t *testing.T) {
	_, err := ParseMode("bogus")
	assert.Error(t, err)
}

func TestWeekDayFromGoWeekday(t *testing.T) {
	assert.Equal(t, Monday, WeekDayFromGoWeekday(1))
	assert.Equal(t, Sunday, WeekDayFromGoWeekday(0))
	assert.Equal(t, Saturday, WeekDayFromGoWeekday(6))
}
