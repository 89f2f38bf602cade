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

// Package remote implements the remote protocol: inbound command
// dispatch and outbound telemetry over a single named channel.
package remote

// InboundMessage is the JSON envelope for every client -> device message.
type InboundMessage struct {
	Action string `json:"action"`

	// request_temperatures
	Value string `json:"value,omitempty"`

	// update_temperature_range
	TemperatureLow  *string `json:"temperature_low,omitempty"`
	TemperatureHigh *string `json:"temperature_high,omitempty"`

	// update_mode
	Mode string `json:"mode,omitempty"`

	// update_setting
	SettingName  string `json:"setting_name,omitempty"`
	SettingValue any    `json:"setting_value,omitempty"`
}

// Inbound action names.
const (
	ActionRequestTemperatures    = "request_temperatures"
	ActionRequestMode            = "request_mode"
	ActionRequestSettings        = "request_settings"
	ActionUpdateTemperatureRange = "update_temperature_range"
	ActionUpdateMode             = "update_mode"
	ActionUpdateSetting          = "update_setting"
)

// Outbound action names.
const (
	EventTemperatureData = "temperature_data"
	EventModeData        = "mode_data"
	EventStateData       = "state_data"
	EventSettingsData    = "settings_data"
)

// OutboundMessage is the JSON envelope for every device -> client message.
type OutboundMessage struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// TemperatureData is the payload of a temperature_data event: rounded
// integers, absent fields are null.
type TemperatureData struct {
	CurrentTemperature *int64 `json:"current_temperature"`
	TemperatureLow     *int64 `json:"temperature_low"`
	TemperatureHigh    *int64 `json:"temperature_high"`
}

type ModeData struct {
	Mode string `json:"mode"`
}

type StateData struct {
	State string `json:"state"`
}
