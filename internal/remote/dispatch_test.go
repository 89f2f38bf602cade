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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"thermocore/internal/control"
	"thermocore/internal/decimal"
	"thermocore/internal/model"
	"thermocore/pkg/eventbus"
	"thermocore/pkg/logger"
)

// fakeMQTTMessage implements mqtt.Message with a fixed payload, enough to
// drive Client.handleInbound in tests without a broker.
type fakeMQTTMessage struct {
	payload []byte
}

func fakeMessage(payload string) mqtt.Message { return fakeMQTTMessage{payload: []byte(payload)} }

func (fakeMQTTMessage) Duplicate() bool   { return false }
func (fakeMQTTMessage) Qos() byte         { return 1 }
func (fakeMQTTMessage) Retained() bool    { return false }
func (fakeMQTTMessage) Topic() string     { return "thermostat/test/cmd" }
func (fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f fakeMQTTMessage) Payload() []byte { return f.payload }
func (fakeMQTTMessage) Ack()              {}

// fakeSubmitter records submitted commands and answers QuerySnapshot/
// SetSetpointRange synchronously, the way the real control.Loop would
// between ticks.
type fakeSubmitter struct {
	commands []control.Command
	snapshot control.Snapshot
}

func (f *fakeSubmitter) Submit(cmd control.Command) {
	f.commands = append(f.commands, cmd)
	switch c := cmd.(type) {
	case control.QuerySnapshot:
		c.Reply <- f.snapshot
	case control.SetSetpointRange:
		r, err := model.NewSetpointRange(c.Low, c.High)
		if err == nil {
			f.snapshot.SetpointRange = r
		}
		c.Result <- err
	}
}

func newTestClient(sub *fakeSubmitter) *Client {
	return &Client{
		log:      logger.New("RemoteTest"),
		eb:       eventbus.New(),
		loop:     sub,
		cmdTopic: "thermostat/test/cmd",
		evtTopic: "thermostat/test/evt",
	}
}

// Scenario 6: an update_temperature_range is forwarded to the loop as a
// SetSetpointRange and the new range is applied.
func TestUpdateTemperatureRange_RoundTrip(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestClient(sub)

	low := "19"
	high := "23"
	c.updateTemperatureRange(InboundMessage{TemperatureLow: &low, TemperatureHigh: &high})

	require.Len(t, sub.commands, 1)
	cmd, ok := sub.commands[0].(control.SetSetpointRange)
	require.True(t, ok)
	assert.True(t, cmd.Low.Equal(decimal.MustFromString("19")))
	assert.True(t, cmd.High.Equal(decimal.MustFromString("23")))
	assert.True(t, sub.snapshot.SetpointRange.Low.Equal(decimal.MustFromString("19")))
}

func TestUpdateTemperatureRange_RejectsInverted(t *testing.T) {
	sub := &fakeSubmitter{snapshot: control.Snapshot{
		SetpointRange: model.SetpointRange{Low: decimal.MustFromString("20"), High: decimal.MustFromString("22")},
	}}
	c := newTestClient(sub)

	low := "25"
	high := "20"
	c.updateTemperatureRange(InboundMessage{TemperatureLow: &low, TemperatureHigh: &high})

	assert.True(t, sub.snapshot.SetpointRange.Low.Equal(decimal.MustFromString("20")))
}

func TestUpdateMode_UnknownNameIgnored(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestClient(sub)

	c.updateMode("sideways")
	assert.Empty(t, sub.commands)
}

func TestUpdateSetting_ForwardsPrettyName(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestClient(sub)

	c.handleInbound(nil, fakeMessage(`{"action":"update_setting","setting_name":"House Size","setting_value":"large"}`))

	require.Len(t, sub.commands, 1)
	cmd, ok := sub.commands[0].(control.UpdateSetting)
	require.True(t, ok)
	assert.Equal(t, "House Size", cmd.PrettyName)
	assert.Equal(t, "large", cmd.Value)
}

func TestHandleInbound_MalformedPayloadIgnored(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newTestClient(sub)

	c.handleInbound(nil, fakeMessage(`not json`))
	assert.Empty(t, sub.commands)
}
