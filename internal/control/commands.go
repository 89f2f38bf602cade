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
	"time"

	"thermocore/internal/decimal"
	"thermocore/internal/model"
)

// Command is anything the control loop applies between ticks. Background
// threads and the remote receiver send commands instead of touching state
// directly.
type Command interface {
	apply(*Loop)
}

// Snapshot is a read-only copy of thermostat state, handed back through a
// Reply channel so callers never see a torn read.
type Snapshot struct {
	Mode                    model.Mode
	State                   model.State
	SetpointRange           model.SetpointRange
	CurrentTemperature      decimal.D9
	CurrentTemperatureValid bool
	Settings                *model.Settings
	LastStateUpdate         time.Time
}

// TogglePower flips Off <-> Auto and forces State = Idle.
type TogglePower struct{}

func (TogglePower) apply(l *Loop) {
	if l.mode == model.ModeOff {
		l.mode = model.ModeAuto
	} else {
		l.mode = model.ModeOff
	}
	l.setState(model.StateIdle)
	l.publishState()
}

// ToggleMode cycles Auto -> Heat -> Cool -> Auto, or sets an explicit mode.
type ToggleMode struct {
	Explicit *model.Mode
}

func (c ToggleMode) apply(l *Loop) {
	if c.Explicit != nil {
		l.mode = *c.Explicit
	} else {
		switch l.mode {
		case model.ModeAuto:
			l.mode = model.ModeHeat
		case model.ModeHeat:
			l.mode = model.ModeCool
		default:
			l.mode = model.ModeAuto
		}
	}
	l.publishState()
}

// SetSetpointRange validates and, if legal, replaces the setpoint range.
type SetSetpointRange struct {
	Low, High decimal.D9
	Result    chan error
}

func (c SetSetpointRange) apply(l *Loop) {
	r, err := model.NewSetpointRange(c.Low, c.High)
	if err != nil {
		if c.Result != nil {
			c.Result <- err
		}
		return
	}
	l.setpointRange = r
	l.publishState()
	if c.Result != nil {
		c.Result <- nil
	}
}

// UpdateSetting mutates a single setting, identified by its pretty display
// name, and writes the settings document through.
type UpdateSetting struct {
	PrettyName string
	Value      any
}

func (c UpdateSetting) apply(l *Loop) {
	rawName, rawValue, ok := model.UnprettifySettingName(l.settings, c.PrettyName, c.Value)
	if !ok {
		l.log.Debug("update_setting: unknown name %q, ignored", c.PrettyName)
		return
	}
	if err := l.settings.Set(rawName, rawValue); err != nil {
		l.log.Error("update_setting: %v", err)
		return
	}
	if err := l.settingsStore.Save(l.settings); err != nil {
		l.log.Error("saving settings: %v", err)
	}
	l.publishSettings()
}

// QuerySnapshot asks the loop for its current state; Reply is always sent
// exactly once.
type QuerySnapshot struct {
	Reply chan Snapshot
}

func (c QuerySnapshot) apply(l *Loop) {
	c.Reply <- l.snapshot()
}

// RecordHistoryNow asks the loop to write the current temperature into the
// history grid immediately, outside the periodic history ticker in Run.
type RecordHistoryNow struct{}

func (RecordHistoryNow) apply(l *Loop) {
	l.recordHistory(time.Now())
}
