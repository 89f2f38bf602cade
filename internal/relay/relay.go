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

// Package relay drives the fan/heat/cool relays through GPIO.
package relay

import (
	"fmt"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"thermocore/internal/config"
	"thermocore/internal/model"
	"thermocore/pkg/logger"
)

// Actuator drives three active-low output pins to one of three valid
// combinations for a given State.
type Actuator struct {
	cfg config.RelayConfig
	log *logger.Logger

	mu     sync.Mutex
	fan    gpio.PinIO
	heat   gpio.PinIO
	cool   gpio.PinIO
	onRPi  bool
	latest model.State
}

// New opens the configured BCM pins when running on target hardware;
// otherwise it records intended output without touching hardware.
func New(cfg config.RelayConfig) (*Actuator, error) {
	a := &Actuator{cfg: cfg, log: logger.New("Relay"), onRPi: model.OnTargetHardware()}

	if !a.onRPi {
		a.log.Debug("not on target hardware, relay calls are stubbed")
		return a, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	a.fan = gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.FanBCMPin))
	a.heat = gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.HeatBCMPin))
	a.cool = gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.CoolBCMPin))
	if a.fan == nil || a.heat == nil || a.cool == nil {
		return nil, fmt.Errorf("relay: could not resolve one or more GPIO pins (fan=%d heat=%d cool=%d)",
			cfg.FanBCMPin, cfg.HeatBCMPin, cfg.CoolBCMPin)
	}

	// de-energize everything at startup; active-low, so Out(true) = off.
	_ = a.fan.Out(gpio.High)
	_ = a.heat.Out(gpio.High)
	_ = a.cool.Out(gpio.High)

	return a, nil
}

// Apply is a total function: given any State it leaves the pins in the
// exact tuple mandated for each state:
//   - Idle: fan off, heat off, cool off
//   - Heat: fan+heat energized, cool off
//   - Cool: fan+cool energized, heat off
func (a *Actuator) Apply(s model.State) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	fanOn, heatOn, coolOn := false, false, false
	switch s {
	case model.StateIdle:
	case model.StateHeat:
		fanOn, heatOn = true, true
	case model.StateCool:
		fanOn, coolOn = true, true
	}

	a.latest = s

	if !a.onRPi {
		a.log.Debug("apply(%s): fan=%v heat=%v cool=%v (stubbed)", s, fanOn, heatOn, coolOn)
		return nil
	}

	if err := a.set(a.fan, fanOn); err != nil {
		return err
	}
	if err := a.set(a.heat, heatOn); err != nil {
		return err
	}
	if err := a.set(a.cool, coolOn); err != nil {
		return err
	}
	return nil
}

// set writes the active-low level for "on".
func (a *Actuator) set(pin gpio.PinIO, on bool) error {
	level := gpio.High
	if on {
		level = gpio.Low
	}
	return pin.Out(level)
}

// Latest returns the last state applied (useful for diagnostics).
func (a *Actuator) Latest() model.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}
