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

// Package weather implements the weather poller: a ticker-driven
// background fetch of outdoor conditions, cached for the control loop.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"thermocore/internal/decimal"
	"thermocore/internal/model"
)

// Client fetches current conditions and short forecasts from an external
// weather service (OpenWeatherMap-shaped API).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: &http.Client{Timeout: 10 * time.Second}}
}

type owmWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Cod int `json:"cod"`
}

// FetchCurrent asks for current conditions at city,countryCode in unit
// ("celsius"|"fahrenheit"). A 5xx or connection failure is wrapped as
// ErrTransientRemote; anything else (bad API key, malformed response) is
// ErrFatalRemote, matching the poller's failure taxonomy.
func (c *Client) FetchCurrent(ctx context.Context, city, countryCode, unit string) (model.WeatherSnapshot, error) {
	units := "metric"
	if unit == "fahrenheit" {
		units = "imperial"
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", city, countryCode))
	q.Set("appid", c.apiKey)
	q.Set("units", units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: %v", model.ErrFatalRemote, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: %v", model.ErrTransientRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: service returned %d", model.ErrTransientRemote, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: service returned %d", model.ErrFatalRemote, resp.StatusCode)
	}

	var parsed owmWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: %v", model.ErrFatalRemote, err)
	}

	condition := "clear"
	if len(parsed.Weather) > 0 {
		condition = parsed.Weather[0].Main
	}

	return model.WeatherSnapshot{
		Temperature:     decimal.MustFromString(fmt.Sprintf("%.2f", parsed.Main.Temp)),
		TemperatureLow:  decimal.MustFromString(fmt.Sprintf("%.2f", parsed.Main.TempMin)),
		TemperatureHigh: decimal.MustFromString(fmt.Sprintf("%.2f", parsed.Main.TempMax)),
		Humidity:        decimal.MustFromString(fmt.Sprintf("%.2f", parsed.Main.Humidity)),
		ConditionTag:    lowercase(condition),
		LastUpdated:     time.Now(),
	}, nil
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// FetchShortForecast returns the 3-hour/5-day forecast as a finite sequence
// of (time, temperature) points. Not cached.
func (c *Client) FetchShortForecast(ctx context.Context, city, countryCode, unit string) ([]model.ForecastPoint, error) {
	units := "metric"
	if unit == "fahrenheit" {
		units = "imperial"
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", city, countryCode))
	q.Set("appid", c.apiKey)
	q.Set("units", units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalRemote, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransientRemote, err)
	}
	defer resp.Body.Close()

	var parsed owmForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalRemote, err)
	}

	points := make([]model.ForecastPoint, 0, len(parsed.List))
	for _, item := range parsed.List {
		points = append(points, model.ForecastPoint{
			Time:        time.Unix(item.Dt, 0),
			Temperature: decimal.MustFromString(fmt.Sprintf("%.2f", item.Main.Temp)),
		})
	}
	return points, nil
}

func lowercase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
