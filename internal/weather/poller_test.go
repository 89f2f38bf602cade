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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermocore/internal/decimal"
	"thermocore/internal/events"
	"thermocore/internal/model"
	"thermocore/pkg/eventbus"
)

type fakeFetcher struct {
	results []fakeResult
	calls   int
}

type fakeResult struct {
	snap model.WeatherSnapshot
	err  error
}

func (f *fakeFetcher) FetchCurrent(ctx context.Context, city, countryCode, unit string) (model.WeatherSnapshot, error) {
	r := f.results[f.calls]
	f.calls++
	return r.snap, r.err
}

func TestPoller_PublishesOnSuccess(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()

	snap := model.WeatherSnapshot{Temperature: decimal.MustFromString("15"), LastUpdated: time.Now()}
	fetcher := &fakeFetcher{results: []fakeResult{{snap: snap}}}
	p := NewPoller(fetcher, eb, "Montreal", "CA", "celsius", time.Hour, time.Minute)

	ch, unsub := eb.Subscribe(context.Background(), events.TopicWeather, false)
	defer unsub()

	p.pollOnce(context.Background())

	select {
	case ev := <-ch:
		update, ok := ev.(events.WeatherUpdate)
		require.True(t, ok)
		assert.Equal(t, "15", update.Snapshot.Temperature.String())
	case <-time.After(time.Second):
		t.Fatal("expected a weather update to be published")
	}

	assert.Equal(t, "15", p.Last().Temperature.String())
}

func TestPoller_TransientErrorDegradesInterval(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()

	fetcher := &fakeFetcher{results: []fakeResult{{err: model.ErrTransientRemote}}}
	p := NewPoller(fetcher, eb, "Montreal", "CA", "celsius", time.Hour, time.Minute)

	p.pollOnce(context.Background())
	assert.Equal(t, time.Minute, p.currentInterval())
}

func TestPoller_SuccessRestoresNominalIntervalAfterDegrade(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()

	snap := model.WeatherSnapshot{Temperature: decimal.MustFromString("10"), LastUpdated: time.Now()}
	fetcher := &fakeFetcher{results: []fakeResult{
		{err: model.ErrTransientRemote},
		{snap: snap},
	}}
	p := NewPoller(fetcher, eb, "Montreal", "CA", "celsius", time.Hour, time.Minute)

	p.pollOnce(context.Background())
	assert.Equal(t, time.Minute, p.currentInterval())

	p.pollOnce(context.Background())
	assert.Equal(t, time.Hour, p.currentInterval())
}

func TestPoller_FatalErrorPanics(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()

	fetcher := &fakeFetcher{results: []fakeResult{{err: fmt.Errorf("wrap: %w", model.ErrFatalRemote)}}}
	p := NewPoller(fetcher, eb, "Montreal", "CA", "celsius", time.Hour, time.Minute)

	assert.Panics(t, func() { p.pollOnce(context.Background()) })
}
