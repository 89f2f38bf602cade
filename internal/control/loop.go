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

// Package control implements the control loop: the heartbeat that
// samples the sensor, decides, suppresses oscillation, drives the relays
// and records history. It is the only writer of thermostat state; every
// other component mutates it by sending a Command.
package control

import (
	"context"
	"time"

	"thermocore/internal/decision"
	"thermocore/internal/decimal"
	"thermocore/internal/events"
	"thermocore/internal/model"
	"thermocore/internal/store"
	"thermocore/pkg/eventbus"
	"thermocore/pkg/logger"
)

// TariffSource is the subset of store.TariffTable the loop depends on.
type TariffSource interface {
	Select(countryCode, city string) (map[int]string, error)
}

// WeatherSource gives the loop the poller's last cached snapshot.
type WeatherSource interface {
	Last() model.WeatherSnapshot
}

// SensorSource is the subset of sensor.Reader the loop depends on.
type SensorSource interface {
	Init() error
	Read() (decimal.D9, error)
}

// RelayActuator is the subset of relay.Actuator the loop depends on.
type RelayActuator interface {
	Apply(model.State) error
}

// DefaultHysteresis is the coarse-band buffer (1.5 C) used when a
// Config leaves Hysteresis at its zero value.
var DefaultHysteresis = decimal.MustFromString("1.5")

// Loop owns all mutable thermostat state.
type Loop struct {
	log *logger.Logger
	eb  *eventbus.Bus

	sensor  SensorSource
	relay   RelayActuator
	weather WeatherSource
	tariff  TariffSource

	settingsStore *store.SettingsStore
	historyStore  *store.HistoryStore

	updateInterval   time.Duration
	oscillationDelay time.Duration
	historyInterval  time.Duration
	hysteresis       decimal.D9

	commands chan Command

	// owned state, touched only from Run's goroutine
	mode                    model.Mode
	state                   model.State
	setpointRange           model.SetpointRange
	currentTemperature      decimal.D9
	currentTemperatureValid bool
	settings                *model.Settings
	history                 *model.HistoryGrid
	lastStateUpdate         time.Time
}

// Config bundles the loop's dependencies and tunables.
type Config struct {
	EventBus         *eventbus.Bus
	Sensor           SensorSource
	Relay            RelayActuator
	Weather          WeatherSource
	Tariff           TariffSource
	SettingsStore    *store.SettingsStore
	HistoryStore     *store.HistoryStore
	UpdateInterval   time.Duration
	OscillationDelay time.Duration
	HistoryInterval  time.Duration
	Hysteresis       decimal.D9
	InitialRange     model.SetpointRange
}

func New(cfg Config) (*Loop, error) {
	settings, err := cfg.SettingsStore.Load()
	if err != nil {
		return nil, err
	}
	history, err := cfg.HistoryStore.Load()
	if err != nil {
		return nil, err
	}

	hysteresis := cfg.Hysteresis
	if hysteresis.IsZero() {
		hysteresis = DefaultHysteresis
	}

	return &Loop{
		log:              logger.New("Control"),
		eb:               cfg.EventBus,
		sensor:           cfg.Sensor,
		relay:            cfg.Relay,
		weather:          cfg.Weather,
		tariff:           cfg.Tariff,
		settingsStore:    cfg.SettingsStore,
		historyStore:     cfg.HistoryStore,
		updateInterval:   cfg.UpdateInterval,
		oscillationDelay: cfg.OscillationDelay,
		historyInterval:  cfg.HistoryInterval,
		hysteresis:       hysteresis,
		commands:         make(chan Command, 32),
		mode:             model.ModeOff,
		state:            model.StateIdle,
		setpointRange:    cfg.InitialRange,
		settings:         settings,
		history:          history,
	}, nil
}

// Submit enqueues a command for the loop to apply between ticks. Safe to
// call from any goroutine; this is the only way outside callers touch state.
func (l *Loop) Submit(cmd Command) {
	l.commands <- cmd
}

// Run implements pkg/service.Runnable: the heartbeat.
func (l *Loop) Run(ctx context.Context) {
	if err := l.sensor.Init(); err != nil {
		l.log.Error("sensor init: %v", err)
	}

	ticker := time.NewTicker(l.updateInterval)
	historyTicker := time.NewTicker(l.historyInterval)
	defer ticker.Stop()
	defer historyTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return
		case cmd := <-l.commands:
			cmd.apply(l)
		case <-historyTicker.C:
			l.recordHistory(time.Now())
		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Loop) shutdown() {
	if err := l.settingsStore.Save(l.settings); err != nil {
		l.log.Error("flushing settings: %v", err)
	}
	if err := l.historyStore.Save(l.history); err != nil {
		l.log.Error("flushing history: %v", err)
	}
	l.log.Info("control loop stopped")
}

// tick is one heartbeat: sample, decide, guard, commit.
func (l *Loop) tick() {
	if l.mode == model.ModeOff {
		return
	}

	if model.OnTargetHardware() {
		reading, err := l.sensor.Read()
		if err != nil {
			l.log.Debug("sensor read failed: %v", err)
			l.currentTemperatureValid = false
		} else {
			l.currentTemperature = reading
			l.currentTemperatureValid = true
		}
	}

	// An invalid reading (including the sentinel -1) must not be allowed to
	// drive a state change, even though -1 < low-1.5 would naively select Heat.
	if !l.currentTemperatureValid || l.currentTemperature.LessThan(model.MinTemperature) {
		l.log.Debug("no valid temperature reading this tick, skipping commit")
		return
	}

	candidate := l.candidateState()
	candidate = l.applyOscillationGuard(candidate)
	candidate = l.applyModeFilter(candidate)

	l.commit(candidate)
}

// candidateState implements the coarse bands + decision-engine invocation of
// the coarse hysteresis bands and, inside them, the decision engine.
func (l *Loop) candidateState() model.State {
	low, high := l.setpointRange.Low, l.setpointRange.High
	current := l.currentTemperature

	switch {
	case current.LessThan(low.Sub(l.hysteresis)):
		return model.StateHeat
	case current.GreaterThan(high.Add(l.hysteresis)):
		return model.StateCool
	default:
		return decision.Recommend(l.buildParameters())
	}
}

func (l *Loop) buildParameters() []decision.Parameter {
	params := make([]decision.Parameter, 0, 4)

	equilibrium := l.setpointRange.Equilibrium()
	internalRating := equilibrium.Sub(l.currentTemperature)
	params = append(params, decision.Parameter{Name: decision.InternalTemperature, Rating: internalRating})

	if l.weather != nil {
		snap := l.weather.Last()
		if !snap.Stale(time.Now(), time.Hour) {
			rating := l.setpointRange.High.Sub(snap.Temperature)
			params = append(params, decision.Parameter{Name: decision.ExternalTemperature, Rating: rating})
		}
	}

	if past, ok := l.history.GetAt(time.Now()); ok {
		if pastTemp, err := decimal.FromString(past); err == nil {
			rating := pastTemp.Sub(l.currentTemperature)
			params = append(params, decision.Parameter{Name: decision.HistoryTemperature, Rating: rating})
		}
	}

	if l.tariff != nil {
		if rating, ok := l.energyCostRating(internalRating); ok {
			params = append(params, decision.Parameter{Name: decision.EnergyCost, Rating: rating})
		}
	}

	return params
}

func (l *Loop) energyCostRating(internalRating decimal.D9) (decimal.D9, bool) {
	countryCode, _ := l.settings.Get("country_code")
	city, _ := l.settings.Get("city")
	countryStr, _ := countryCode.(string)
	cityStr, _ := city.(string)
	if countryStr == "" || cityStr == "" {
		return decimal.Zero, false
	}

	costs, err := l.tariff.Select(countryStr, cityStr)
	if err != nil || len(costs) == 0 {
		// A tariff select failure omits the energy term; it is not fatal.
		return decimal.Zero, false
	}

	currentHour := model.RoundTime(time.Now(), time.Hour).Hour()
	currentCostStr, ok := costs[currentHour]
	if !ok {
		return decimal.Zero, false
	}

	lowest := decimal.D9{}
	first := true
	for _, c := range costs {
		v, err := decimal.FromString(c)
		if err != nil {
			continue
		}
		if first || v.LessThan(lowest) {
			lowest = v
			first = false
		}
	}
	if first {
		return decimal.Zero, false
	}

	currentCost, err := decimal.FromString(currentCostStr)
	if err != nil || currentCost.IsZero() {
		return decimal.Zero, false
	}

	ratio := lowest.Div(currentCost)
	return ratio.Mul(internalRating), true
}

// applyOscillationGuard suppresses a state change that arrives before
// oscillationDelay has elapsed since the last one.
func (l *Loop) applyOscillationGuard(candidate model.State) model.State {
	if candidate == l.state {
		return candidate
	}
	if time.Since(l.lastStateUpdate) < l.oscillationDelay {
		return l.state
	}
	return candidate
}

// applyModeFilter keeps the candidate state consistent with the
// user-selected mode (e.g. Cool mode never commands Heat).
func (l *Loop) applyModeFilter(candidate model.State) model.State {
	switch l.mode {
	case model.ModeHeat:
		if candidate == model.StateCool {
			return l.state
		}
	case model.ModeCool:
		if candidate == model.StateHeat {
			return l.state
		}
	}
	return candidate
}

// commit applies a (possibly unchanged) state: relay writes MUST precede the
// state_data publish, and lastStateUpdate is set strictly before the relay
// write (the relay/state-publish ordering invariant).
func (l *Loop) commit(newState model.State) {
	changed := newState != l.state
	if changed {
		l.setState(newState)
	}
	if err := l.relay.Apply(l.state); err != nil {
		l.log.Error("relay apply: %v", err)
	}
	if changed {
		l.publishState()
	}
}

func (l *Loop) setState(s model.State) {
	l.lastStateUpdate = time.Now()
	l.state = s
}

func (l *Loop) recordHistory(now time.Time) {
	if !l.currentTemperatureValid {
		return
	}
	l.history.SetAt(now, l.currentTemperature.String())
	if err := l.historyStore.Save(l.history); err != nil {
		l.log.Error("saving history: %v", err)
	}
}

func (l *Loop) publishState() {
	l.eb.Publish(events.TopicThermostatState, events.StateUpdate{
		Mode:             l.mode,
		State:            l.state,
		SetpointRange:    l.setpointRange,
		CurrentTemp:      l.currentTemperature,
		CurrentTempValid: l.currentTemperatureValid,
	})
}

func (l *Loop) publishSettings() {
	l.publishState()
}

func (l *Loop) snapshot() Snapshot {
	return Snapshot{
		Mode:                    l.mode,
		State:                   l.state,
		SetpointRange:           l.setpointRange,
		CurrentTemperature:      l.currentTemperature,
		CurrentTemperatureValid: l.currentTemperatureValid,
		Settings:                l.settings,
		LastStateUpdate:         l.lastStateUpdate,
	}
}
