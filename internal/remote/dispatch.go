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

package remote

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"thermocore/internal/control"
	"thermocore/internal/decimal"
	"thermocore/internal/model"
)

// handleInbound is the paho subscribe callback: one message in, zero or one
// control.Command submitted. Requests and temperature range updates block
// the MQTT client's goroutine until the control loop has answered.
func (c *Client) handleInbound(_ mqtt.Client, msg mqtt.Message) {
	var in InboundMessage
	if err := json.Unmarshal(msg.Payload(), &in); err != nil {
		c.log.Debug("discarding malformed inbound message: %v", err)
		return
	}

	switch in.Action {
	case ActionRequestTemperatures:
		c.replyTemperatures(in.Value)
	case ActionRequestMode:
		c.replyMode()
	case ActionRequestSettings:
		c.replySettings()
	case ActionUpdateTemperatureRange:
		c.updateTemperatureRange(in)
	case ActionUpdateMode:
		c.updateMode(in.Mode)
	case ActionUpdateSetting:
		c.loop.Submit(control.UpdateSetting{PrettyName: in.SettingName, Value: in.SettingValue})
	default:
		c.log.Debug("unknown inbound action %q, ignored", in.Action)
	}
}

func (c *Client) querySnapshot() control.Snapshot {
	reply := make(chan control.Snapshot, 1)
	c.loop.Submit(control.QuerySnapshot{Reply: reply})
	return <-reply
}

func (c *Client) replyTemperatures(value string) {
	snap := c.querySnapshot()
	var data TemperatureData
	if snap.CurrentTemperatureValid {
		v := snap.CurrentTemperature.RoundToInt()
		data.CurrentTemperature = &v
	}
	if value == "all" {
		data.TemperatureLow = roundedPtr(snap.SetpointRange.Low)
		data.TemperatureHigh = roundedPtr(snap.SetpointRange.High)
	}
	c.publish(EventTemperatureData, data)
}

func (c *Client) replyMode() {
	snap := c.querySnapshot()
	c.publish(EventModeData, ModeData{Mode: snap.Mode.String()})
}

func (c *Client) replySettings() {
	snap := c.querySnapshot()
	if snap.Settings == nil {
		c.publish(EventSettingsData, map[string]string{})
		return
	}
	c.publish(EventSettingsData, model.PrettifySettings(snap.Settings))
}

func (c *Client) updateTemperatureRange(in InboundMessage) {
	if in.TemperatureLow == nil || in.TemperatureHigh == nil {
		c.log.Debug("update_temperature_range missing low/high, ignored")
		return
	}
	low, err := decimal.FromString(*in.TemperatureLow)
	if err != nil {
		c.log.Debug("update_temperature_range: bad low %q: %v", *in.TemperatureLow, err)
		return
	}
	high, err := decimal.FromString(*in.TemperatureHigh)
	if err != nil {
		c.log.Debug("update_temperature_range: bad high %q: %v", *in.TemperatureHigh, err)
		return
	}

	result := make(chan error, 1)
	c.loop.Submit(control.SetSetpointRange{Low: low, High: high, Result: result})
	if err := <-result; err != nil {
		c.log.Debug("update_temperature_range rejected: %v", err)
	}
}

func (c *Client) updateMode(name string) {
	mode, err := model.ParseMode(name)
	if err != nil {
		c.log.Debug("update_mode: %v", err)
		return
	}
	c.loop.Submit(control.ToggleMode{Explicit: &mode})
}
