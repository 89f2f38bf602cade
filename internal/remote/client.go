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
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"thermocore/internal/control"
	"thermocore/internal/events"
	"thermocore/internal/model"
	"thermocore/pkg/eventbus"
	"thermocore/pkg/logger"
)

// Client is the remote receiver (T4): a paho MQTT client subscribed to the
// device's inbound topic, translating every message into a control.Command,
// and a set of eventbus subscriptions that re-publish outbound events.
type Client struct {
	log  *logger.Logger
	eb   *eventbus.Bus
	loop Submitter

	broker   string
	clientID string
	cmdTopic string
	evtTopic string

	mq mqtt.Client
}

// Submitter is the subset of control.Loop the remote receiver depends on.
type Submitter interface {
	Submit(control.Command)
}

// Config bundles the MQTT connection parameters and topic identity.
type Config struct {
	Broker       string
	ThermostatID string
	Username     string
	Password     string
}

// New constructs a Client. Run connects to the broker itself before it
// forwards any events.
func New(cfg Config, loop Submitter, eb *eventbus.Bus) *Client {
	c := &Client{
		log:      logger.New("Remote"),
		eb:       eb,
		loop:     loop,
		broker:   cfg.Broker,
		clientID: "thermocore-" + cfg.ThermostatID,
		cmdTopic: fmt.Sprintf("thermostat/%s/cmd", cfg.ThermostatID),
		evtTopic: fmt.Sprintf("thermostat/%s/evt", cfg.ThermostatID),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(c.clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetWill(c.evtTopic, `{"action":"state_data","data":{"state":"offline"}}`, 1, true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		c.log.Info("connected to broker %s", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.log.Error("connection to broker lost: %v", err)
	})

	c.mq = mqtt.NewClient(opts)
	return c
}

// Connect dials the broker and subscribes to the inbound command topic.
func (c *Client) Connect() error {
	token := c.mq.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: mqtt connect: %v", model.ErrTransientRemote, err)
	}

	token = c.mq.Subscribe(c.cmdTopic, 1, c.handleInbound)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: mqtt subscribe %s: %v", model.ErrTransientRemote, c.cmdTopic, err)
	}
	return nil
}

// Run implements pkg/service.Runnable: it forwards outbound bus events to
// the broker until ctx is cancelled, then disconnects cleanly.
func (c *Client) Run(ctx context.Context) {
	if err := c.Connect(); err != nil {
		c.log.Error("%v", err)
		panic(err)
	}
	defer c.mq.Disconnect(500)

	stateCh, unsubState := c.eb.Subscribe(ctx, events.TopicThermostatState, true)
	defer unsubState()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stateCh:
			if !ok {
				return
			}
			update, ok := ev.(events.StateUpdate)
			if !ok {
				continue
			}
			c.publishStateUpdate(update)
		}
	}
}

func (c *Client) publishStateUpdate(update events.StateUpdate) {
	c.publish(EventModeData, ModeData{Mode: update.Mode.String()})
	c.publish(EventStateData, StateData{State: update.State.String()})

	data := TemperatureData{
		TemperatureLow:  roundedPtr(update.SetpointRange.Low),
		TemperatureHigh: roundedPtr(update.SetpointRange.High),
	}
	if update.CurrentTempValid {
		v := update.CurrentTemp.RoundToInt()
		data.CurrentTemperature = &v
	}
	c.publish(EventTemperatureData, data)
}

func roundedPtr(d interface{ RoundToInt() int64 }) *int64 {
	v := d.RoundToInt()
	return &v
}

func (c *Client) publish(action string, data any) {
	payload, err := json.Marshal(OutboundMessage{Action: action, Data: data})
	if err != nil {
		c.log.Error("marshalling %s: %v", action, err)
		return
	}

	// Not part of the wire payload: a per-publish correlation id so a single
	// inbound request and its resulting sequence of outbound events can be
	// tied together in the log, the way hkt999rtk's mqtt client does.
	corrID := uuid.NewString()

	token := c.mq.Publish(c.evtTopic, 1, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			c.log.Error("publishing %s [%s]: %v", action, corrID, err)
			return
		}
		c.log.Debug("published %s [%s]", action, corrID)
	}()
}
