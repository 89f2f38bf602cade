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

package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"thermocore/pkg/eventbus"
)

type ThermostatConfig struct {
	UpdateIntervalSeconds   int    `json:"update_interval_seconds"`
	OscillationDelaySeconds int    `json:"oscillation_delay_seconds"`
	HistoryRecordSeconds    int    `json:"history_record_seconds"`
	HysteresisOffset        string `json:"hysteresis_offset"`
	ThermostatID            string `json:"thermostat_id"`
	InitialTemperatureLow   string `json:"initial_temperature_low"`
	InitialTemperatureHigh  string `json:"initial_temperature_high"`
}

type WeatherConfig struct {
	BaseURL                      string `json:"base_url"`
	APIKey                       string `json:"api_key"`
	Unit                         string `json:"unit"`
	FetchIntervalSeconds         int    `json:"fetch_interval_seconds"`
	DegradedFetchIntervalSeconds int    `json:"degraded_fetch_interval_seconds"`
}

type RemoteConfig struct {
	BrokerURL string `json:"broker_url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type StoreConfig struct {
	SettingsPath        string `json:"settings_path"`
	DefaultSettingsPath string `json:"default_settings_path"`
	HistoryPath         string `json:"history_path"`
	DefaultHistoryPath  string `json:"default_history_path"`
	TariffDBPath        string `json:"tariff_db_path"`
	TariffCSVPath       string `json:"tariff_csv_path"`
}

type Config struct {
	Thermostat ThermostatConfig `json:"thermostat"`
	Weather    WeatherConfig    `json:"weather"`
	Remote     RemoteConfig     `json:"remote"`
	Store      StoreConfig      `json:"store"`

	// not loaded from file, populated by main before services start
	EventBus *eventbus.Bus `json:"-"`
	DataDir  string        `json:"-"`
	RootDir  string        `json:"-"`
}

// LoadFile decodes path as JSON, applies defaults, then overlays the fields
// listed in applyEnvOverlay from THERMOCORE_-prefixed environment variables
// using viper (e.g.
// THERMOCORE_THERMOSTAT_OSCILLATION_DELAY_SECONDS=15 for a demo build).
// Failure to parse the user file is fatal at startup, per the persistence
// error policy.
func LoadFile(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open config: %v", err)
	}
	defer f.Close()

	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Fatalf("decode config: %v", err)
	}

	applyDefaults(&c)
	applyEnvOverlay(&c, path)

	return &c
}

func applyDefaults(c *Config) {
	if c.Thermostat.UpdateIntervalSeconds == 0 {
		c.Thermostat.UpdateIntervalSeconds = 5
	}
	if c.Thermostat.OscillationDelaySeconds == 0 {
		c.Thermostat.OscillationDelaySeconds = 300
	}
	if c.Thermostat.HistoryRecordSeconds == 0 {
		c.Thermostat.HistoryRecordSeconds = 600
	}
	if c.Thermostat.HysteresisOffset == "" {
		c.Thermostat.HysteresisOffset = "1.5"
	}
	if c.Thermostat.ThermostatID == "" {
		c.Thermostat.ThermostatID = "thermostat"
	}
	if c.Thermostat.InitialTemperatureLow == "" {
		c.Thermostat.InitialTemperatureLow = "20"
	}
	if c.Thermostat.InitialTemperatureHigh == "" {
		c.Thermostat.InitialTemperatureHigh = "22"
	}
	if c.Weather.FetchIntervalSeconds == 0 {
		c.Weather.FetchIntervalSeconds = 1800
	}
	if c.Weather.DegradedFetchIntervalSeconds == 0 {
		c.Weather.DegradedFetchIntervalSeconds = 600
	}
	if c.Weather.Unit == "" {
		c.Weather.Unit = "celsius"
	}
	if c.Store.SettingsPath == "" {
		c.Store.SettingsPath = "settings.json"
	}
	if c.Store.DefaultSettingsPath == "" {
		c.Store.DefaultSettingsPath = "default_settings.json"
	}
	if c.Store.HistoryPath == "" {
		c.Store.HistoryPath = "history.json"
	}
	if c.Store.DefaultHistoryPath == "" {
		c.Store.DefaultHistoryPath = "default_history.json"
	}
	if c.Store.TariffDBPath == "" {
		c.Store.TariffDBPath = "app.db"
	}
}

// applyEnvOverlay lets operators override the fields listed below via
// environment variables without editing the JSON file, matching how a demo
// build lowers OSCILLATION_DELAY to 15 seconds. Other fields can only be set
// in the JSON file.
func applyEnvOverlay(c *Config, configPath string) {
	v := viper.New()
	v.SetEnvPrefix("THERMOCORE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overlayInt(v, "thermostat.update_interval_seconds", &c.Thermostat.UpdateIntervalSeconds)
	overlayInt(v, "thermostat.oscillation_delay_seconds", &c.Thermostat.OscillationDelaySeconds)
	overlayInt(v, "thermostat.history_record_seconds", &c.Thermostat.HistoryRecordSeconds)
	overlayString(v, "thermostat.hysteresis_offset", &c.Thermostat.HysteresisOffset)
	overlayString(v, "thermostat.thermostat_id", &c.Thermostat.ThermostatID)
	overlayString(v, "weather.base_url", &c.Weather.BaseURL)
	overlayString(v, "weather.api_key", &c.Weather.APIKey)
	overlayInt(v, "weather.fetch_interval_seconds", &c.Weather.FetchIntervalSeconds)
	overlayString(v, "remote.broker_url", &c.Remote.BrokerURL)
	overlayString(v, "remote.username", &c.Remote.Username)
	overlayString(v, "remote.password", &c.Remote.Password)
}

func overlayString(v *viper.Viper, key string, target *string) {
	if v.IsSet(key) {
		*target = v.GetString(key)
	}
}

func overlayInt(v *viper.Viper, key string, target *int) {
	if v.IsSet(key) {
		*target = v.GetInt(key)
	}
}
