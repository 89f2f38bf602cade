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

// Package events names the topics carried over pkg/eventbus between the
// control loop and its background collaborators.
package events

import (
	"thermocore/internal/decimal"
	"thermocore/internal/model"
	"thermocore/pkg/eventbus"
)

var (
	// TopicWeather carries the latest WeatherUpdate from the poller.
	TopicWeather eventbus.Topic = "weather"
	// TopicThermostatState carries the latest StateUpdate from the control
	// loop, consumed by the remote protocol and diagnostics.
	TopicThermostatState eventbus.Topic = "thermostat.state"
)

// WeatherUpdate is published by the weather poller each successful fetch.
type WeatherUpdate struct {
	Snapshot model.WeatherSnapshot
}

// StateUpdate is published by the control loop whenever mode, state or the
// setpoint range changes.
type StateUpdate struct {
	Mode             model.Mode
	State            model.State
	SetpointRange    model.SetpointRange
	CurrentTemp      decimal.D9
	CurrentTempValid bool
}
