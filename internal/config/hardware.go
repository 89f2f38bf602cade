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
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// HardwareConfig describes the GPIO relay wiring and the 1-wire sensor
// device, kept in its own YAML file so it can be swapped per board without
// touching application config.
type HardwareConfig struct {
	Relay  RelayConfig  `yaml:"relay"`
	Sensor SensorConfig `yaml:"sensor"`
}

type RelayConfig struct {
	FanBCMPin  int `yaml:"fan_bcm_pin"`
	HeatBCMPin int `yaml:"heat_bcm_pin"`
	CoolBCMPin int `yaml:"cool_bcm_pin"`
}

type SensorConfig struct {
	DeviceGlob string `yaml:"device_glob"`
}

// DefaultHardwareConfig matches the production board's pin assignment: BCM 13/12/16, active-low.
func DefaultHardwareConfig() *HardwareConfig {
	return &HardwareConfig{
		Relay: RelayConfig{
			FanBCMPin:  13,
			HeatBCMPin: 12,
			CoolBCMPin: 16,
		},
		Sensor: SensorConfig{
			DeviceGlob: "/sys/bus/w1/devices/28-*/w1_slave",
		},
	}
}

// LoadHardwareConfig reads filename; if it does not exist, returns the
// default wiring rather than failing startup, since non-target hosts never
// touch the hardware anyway.
func LoadHardwareConfig(filename string) *HardwareConfig {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultHardwareConfig()
		}
		log.Fatalf("read hardware config: %v", err)
	}

	cfg := DefaultHardwareConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("parse hardware config: %v", err)
	}
	return cfg
}
