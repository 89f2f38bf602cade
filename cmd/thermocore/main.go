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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"thermocore/internal/config"
	"thermocore/internal/control"
	"thermocore/internal/decimal"
	"thermocore/internal/geoip"
	"thermocore/internal/model"
	"thermocore/internal/relay"
	"thermocore/internal/remote"
	"thermocore/internal/sensor"
	"thermocore/internal/store"
	"thermocore/internal/sysmon"
	"thermocore/internal/weather"
	"thermocore/pkg/appctx"
	"thermocore/pkg/eventbus"
	"thermocore/pkg/logger"
	"thermocore/pkg/rootserv"
	"thermocore/pkg/service"
)

func main() {
	rootdir := os.Getenv("PROJECT_ROOT")
	if rootdir == "" {
		rootdir = "."
	}

	logger.Init(filepath.Join(rootdir, "var/logs/thermocore.log"))
	defer logger.Close()
	log := logger.New("Main")

	appConf := config.LoadFile(filepath.Join(rootdir, "var/config/thermocore.json"))
	hwConf := config.LoadHardwareConfig(filepath.Join(rootdir, "var/config/thermocore.hardware.yml"))

	appConf.EventBus = eventbus.New()
	appConf.DataDir = filepath.Join(rootdir, "var/cache")
	appConf.RootDir = rootdir

	fmt.Println(filepath.Join(rootdir, "var/logs/thermocore.log"))
	fmt.Println(filepath.Join(rootdir, "var/config/thermocore.json"))

	if err := os.MkdirAll(appConf.DataDir, 0755); err != nil {
		log.Fatal("creating data dir: %v", err)
	}

	settingsStore := store.NewSettingsStore(
		filepath.Join(appConf.DataDir, appConf.Store.SettingsPath),
		filepath.Join(rootdir, "var/config", appConf.Store.DefaultSettingsPath),
	)
	historyStore := store.NewHistoryStore(
		filepath.Join(appConf.DataDir, appConf.Store.HistoryPath),
		filepath.Join(rootdir, "var/config", appConf.Store.DefaultHistoryPath),
	)
	tariffTable, err := store.OpenTariffTable(filepath.Join(appConf.DataDir, appConf.Store.TariffDBPath))
	if err != nil {
		log.Fatal("opening tariff table: %v", err)
	}
	if appConf.Store.TariffCSVPath != "" {
		if n, err := tariffTable.InsertCSV(filepath.Join(rootdir, "var/config", appConf.Store.TariffCSVPath)); err != nil {
			log.Error("loading tariff csv: %v", err)
		} else if n > 0 {
			log.Info("loaded %d tariff rows", n)
		}
	}

	sensorReader := sensor.New(hwConf.Sensor)
	relayActuator, err := relay.New(hwConf.Relay)
	if err != nil {
		log.Fatal("initializing relay: %v", err)
	}

	settings, err := settingsStore.Load()
	if err != nil {
		log.Fatal("loading settings: %v", err)
	}
	city, country := settingsCityCountry(settings, log)

	weatherClient := weather.NewClient(appConf.Weather.BaseURL, appConf.Weather.APIKey)
	weatherPoller := weather.NewPoller(
		weatherClient,
		appConf.EventBus,
		city,
		country,
		appConf.Weather.Unit,
		time.Duration(appConf.Weather.FetchIntervalSeconds)*time.Second,
		time.Duration(appConf.Weather.DegradedFetchIntervalSeconds)*time.Second,
	)

	hysteresis, err := decimal.FromString(appConf.Thermostat.HysteresisOffset)
	if err != nil {
		log.Fatal("parsing hysteresis_offset: %v", err)
	}
	initialLow, err := decimal.FromString(appConf.Thermostat.InitialTemperatureLow)
	if err != nil {
		log.Fatal("parsing initial_temperature_low: %v", err)
	}
	initialHigh, err := decimal.FromString(appConf.Thermostat.InitialTemperatureHigh)
	if err != nil {
		log.Fatal("parsing initial_temperature_high: %v", err)
	}
	initialRange, err := model.NewSetpointRange(initialLow, initialHigh)
	if err != nil {
		log.Fatal("invalid initial setpoint range: %v", err)
	}

	controlLoop, err := control.New(control.Config{
		EventBus:         appConf.EventBus,
		Sensor:           sensorReader,
		Relay:            relayActuator,
		Weather:          weatherPoller,
		Tariff:           tariffTable,
		SettingsStore:    settingsStore,
		HistoryStore:     historyStore,
		UpdateInterval:   time.Duration(appConf.Thermostat.UpdateIntervalSeconds) * time.Second,
		OscillationDelay: time.Duration(appConf.Thermostat.OscillationDelaySeconds) * time.Second,
		HistoryInterval:  time.Duration(appConf.Thermostat.HistoryRecordSeconds) * time.Second,
		Hysteresis:       hysteresis,
		InitialRange:     initialRange,
	})
	if err != nil {
		log.Fatal("initializing control loop: %v", err)
	}

	remoteClient := remote.New(remote.Config{
		Broker:       appConf.Remote.BrokerURL,
		ThermostatID: appConf.Thermostat.ThermostatID,
		Username:     appConf.Remote.Username,
		Password:     appConf.Remote.Password,
	}, controlLoop, appConf.EventBus)

	ctx, ctxCancel := appctx.New()

	server := rootserv.New(":80")
	server.Attach("/logger", "Logger", logger.WebService())
	server.Attach("/monitor", "System Monitor", sysmon.New())

	exitCh := service.Start(ctx, ctxCancel, []service.Runnable{
		controlLoop,
		weatherPoller,
		remoteClient,
		server,
	})

	exitCode := <-exitCh
	if err := tariffTable.Close(); err != nil {
		log.Error("closing tariff table: %v", err)
	}
	os.Exit(exitCode)
}

// settingsCityCountry reads city/country_code out of the settings document;
// if either is missing (first run against a default_settings.json that
// doesn't carry them) it falls back to a geoip lookup, logging but not
// failing startup on error.
func settingsCityCountry(settings *model.Settings, log *logger.Logger) (city, country string) {
	if v, ok := settings.Get("city"); ok {
		city, _ = v.(string)
	}
	if v, ok := settings.Get("country_code"); ok {
		country, _ = v.(string)
	}
	if city != "" && country != "" {
		return city, country
	}

	loc, err := geoip.Lookup()
	if err != nil {
		log.Error("geoip lookup failed, weather polling will use configured defaults: %v", err)
		return city, country
	}
	if city == "" {
		city = loc.City
	}
	if country == "" {
		country = loc.CountryCode
	}
	return city, country
}
