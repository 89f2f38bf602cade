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

package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"thermocore/internal/events"
	"thermocore/internal/model"
	"thermocore/pkg/eventbus"
	"thermocore/pkg/logger"
)

// Fetcher is the subset of Client the poller depends on, so tests can supply
// a stub.
type Fetcher interface {
	FetchCurrent(ctx context.Context, city, countryCode, unit string) (model.WeatherSnapshot, error)
}

// Poller is the long-lived background task that polls the weather
// service. Every nominalInterval it asks the external service for current
// conditions; on a transient failure or lost connectivity it switches to
// degradedInterval until the next success restores the nominal one.
type Poller struct {
	fetcher Fetcher
	eb      *eventbus.Bus
	log     *logger.Logger

	city, countryCode, unit string

	nominalInterval  time.Duration
	degradedInterval time.Duration

	mu       sync.RWMutex
	interval time.Duration
	last     model.WeatherSnapshot
}

func NewPoller(fetcher Fetcher, eb *eventbus.Bus, city, countryCode, unit string, nominal, degraded time.Duration) *Poller {
	return &Poller{
		fetcher:          fetcher,
		eb:               eb,
		log:              logger.New("Weather"),
		city:             city,
		countryCode:      countryCode,
		unit:             unit,
		nominalInterval:  nominal,
		degradedInterval: degraded,
		interval:         nominal,
	}
}

// Run implements pkg/service.Runnable.
func (p *Poller) Run(ctx context.Context) {
	p.pollOnce(ctx)

	timer := time.NewTimer(p.currentInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.pollOnce(ctx)
			timer.Reset(p.currentInterval())
		}
	}
}

func (p *Poller) currentInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

func (p *Poller) pollOnce(ctx context.Context) {
	snapshot, err := p.fetcher.FetchCurrent(ctx, p.city, p.countryCode, p.unit)
	if err == nil {
		p.mu.Lock()
		p.interval = p.nominalInterval
		p.last = snapshot
		p.mu.Unlock()

		p.eb.Publish(events.TopicWeather, events.WeatherUpdate{Snapshot: snapshot})
		return
	}

	switch {
	case errors.Is(err, model.ErrTransientRemote):
		p.log.Debug("transient weather fetch error, degrading interval: %v", err)
		p.degrade()
	case !ConnectedToInternet("8.8.8.8", 53, time.Second):
		p.log.Debug("no internet connectivity, degrading interval")
		p.degrade()
	default:
		// ErrFatalRemote or anything else: propagate by panicking. The
		// supervising service.Start recovers it and cancels the root
		// context, which stops the process with exit code -1.
		p.log.Error("fatal weather fetch error: %v", err)
		panic(err)
	}
}

func (p *Poller) degrade() {
	p.mu.Lock()
	p.interval = p.degradedInterval
	p.mu.Unlock()
}

// Last returns the most recently fetched snapshot.
func (p *Poller) Last() model.WeatherSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
