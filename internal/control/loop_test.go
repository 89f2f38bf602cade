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

package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermocore/internal/decimal"
	"thermocore/internal/model"
	"thermocore/internal/store"
	"thermocore/pkg/eventbus"
)

type fakeSensor struct {
	reading decimal.D9
	err     error
}

func (f *fakeSensor) Init() error { return nil }
func (f *fakeSensor) Read() (decimal.D9, error) {
	return f.reading, f.err
}

type fakeRelay struct {
	applied []model.State
}

func (f *fakeRelay) Apply(s model.State) error {
	f.applied = append(f.applied, s)
	return nil
}

type fakeWeather struct{}

func (fakeWeather) Last() model.WeatherSnapshot { return model.WeatherSnapshot{} }

func newTestLoop(t *testing.T, sens SensorSource, rel RelayActuator) *Loop {
	t.Helper()
	dir := t.TempDir()
	writeDefaultDocs(t, dir)

	settingsStore := store.NewSettingsStore(filepath.Join(dir, "settings.json"), filepath.Join(dir, "default_settings.json"))
	historyStore := store.NewHistoryStore(filepath.Join(dir, "history.json"), filepath.Join(dir, "default_history.json"))

	loop, err := New(Config{
		EventBus:         eventbus.New(),
		Sensor:           sens,
		Relay:            rel,
		Weather:          fakeWeather{},
		SettingsStore:    settingsStore,
		HistoryStore:     historyStore,
		UpdateInterval:   time.Second,
		OscillationDelay: 300 * time.Second,
		HistoryInterval:  600 * time.Second,
		InitialRange: model.SetpointRange{
			Low:  decimal.MustFromString("20"),
			High: decimal.MustFromString("22"),
		},
	})
	require.NoError(t, err)
	return loop
}

func writeDefaultDocs(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default_settings.json"), []byte(`{"city":"Calgary","country_code":"CA"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default_history.json"), []byte(`{}`), 0644))
}

// Scenario 1: heating band, coarse band triggers Heat immediately.
func TestTick_HeatingBand(t *testing.T) {
	sens := &fakeSensor{reading: decimal.MustFromString("18.0")}
	rel := &fakeRelay{}
	loop := newTestLoop(t, sens, rel)
	loop.mode = model.ModeAuto
	loop.currentTemperature = sens.reading
	loop.currentTemperatureValid = true
	loop.lastStateUpdate = time.Now().Add(-time.Hour)

	candidate := loop.candidateState()
	assert.Equal(t, model.StateHeat, candidate)
}

// Scenario 3: mode suppression. Cool mode never observes Heat.
func TestTick_ModeSuppression(t *testing.T) {
	sens := &fakeSensor{reading: decimal.MustFromString("18.0")}
	rel := &fakeRelay{}
	loop := newTestLoop(t, sens, rel)
	loop.mode = model.ModeCool
	loop.state = model.StateIdle
	loop.currentTemperature = sens.reading
	loop.currentTemperatureValid = true
	loop.lastStateUpdate = time.Now().Add(-time.Hour)

	loop.tick()
	assert.Equal(t, model.StateIdle, loop.state)
}

// Scenario 4: oscillation guard. A recent transition suppresses the new candidate.
// 21.5 is the range's equilibrium, so the engine proposes Idle.
func TestTick_OscillationGuard(t *testing.T) {
	sens := &fakeSensor{reading: decimal.MustFromString("21.5")}
	rel := &fakeRelay{}
	loop := newTestLoop(t, sens, rel)
	loop.mode = model.ModeAuto
	loop.state = model.StateHeat
	loop.currentTemperature = sens.reading
	loop.currentTemperatureValid = true
	loop.lastStateUpdate = time.Now().Add(-30 * time.Second)

	loop.tick()
	assert.Equal(t, model.StateHeat, loop.state)
}

// Scenario 5: sensor sentinel. A -1 reading must not commit a state change.
func TestTick_SensorSentinelSkipsCommit(t *testing.T) {
	sens := &fakeSensor{reading: decimal.FromInt(-1)}
	rel := &fakeRelay{}
	loop := newTestLoop(t, sens, rel)
	loop.mode = model.ModeAuto
	loop.state = model.StateIdle
	loop.currentTemperature = sens.reading
	loop.currentTemperatureValid = true
	loop.lastStateUpdate = time.Now().Add(-time.Hour)

	loop.tick()
	assert.Equal(t, model.StateIdle, loop.state)
	assert.Empty(t, rel.applied)
}

func TestSetSetpointRange_RejectsInvalid(t *testing.T) {
	loop := newTestLoop(t, &fakeSensor{}, &fakeRelay{})
	result := make(chan error, 1)
	SetSetpointRange{Low: decimal.MustFromString("25"), High: decimal.MustFromString("20"), Result: result}.apply(loop)
	err := <-result
	assert.Error(t, err)
	assert.Equal(t, decimal.MustFromString("20"), loop.setpointRange.Low)
}
