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

// Package sensor reads the 1-wire temperature probe.
package sensor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"thermocore/internal/config"
	"thermocore/internal/decimal"
	"thermocore/internal/model"
	"thermocore/pkg/logger"
)

// Sentinel is the -1 "no valid reading" value. Read never returns it (a
// failed read returns an error), and the control loop marks a failed read
// invalid with a flag instead of storing this value.
var Sentinel = decimal.FromInt(-1)

type Reader struct {
	deviceGlob string
	log        *logger.Logger
}

func New(cfg config.SensorConfig) *Reader {
	return &Reader{
		deviceGlob: cfg.DeviceGlob,
		log:        logger.New("Sensor"),
	}
}

// Init loads the 1-wire kernel modules. No-op off target hardware.
func (r *Reader) Init() error {
	if !model.OnTargetHardware() {
		r.log.Debug("not on target hardware, skipping module load")
		return nil
	}
	if err := exec.Command("modprobe", "w1-gpio").Run(); err != nil {
		r.log.Error("modprobe w1-gpio: %v", err)
	}
	if err := exec.Command("modprobe", "w1-therm").Run(); err != nil {
		r.log.Error("modprobe w1-therm: %v", err)
	}
	return nil
}

// Read parses the slave device file. Line 1 ends with a CRC token (YES/NO).
// Line 2 contains "t=<milli-celsius>". Returns the value divided by 1000 on
// YES.
func (r *Reader) Read() (decimal.D9, error) {
	matches, err := filepath.Glob(r.deviceGlob)
	if err != nil || len(matches) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no device matching %q", model.ErrSensorUnavailable, r.deviceGlob)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", model.ErrSensorUnavailable, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return decimal.Zero, fmt.Errorf("%w: empty device file", model.ErrSensorParse)
	}
	line1 := scanner.Text()
	if !strings.HasSuffix(strings.TrimSpace(line1), "YES") {
		return decimal.Zero, fmt.Errorf("%w: crc not YES", model.ErrSensorChecksum)
	}

	if !scanner.Scan() {
		return decimal.Zero, fmt.Errorf("%w: missing second line", model.ErrSensorParse)
	}
	line2 := scanner.Text()

	idx := strings.Index(line2, "t=")
	if idx < 0 {
		return decimal.Zero, fmt.Errorf("%w: no t= field", model.ErrSensorParse)
	}
	milliStr := line2[idx+2:]
	milli, err := strconv.ParseInt(strings.TrimSpace(milliStr), 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", model.ErrSensorParse, err)
	}

	return decimal.FromMilli(milli), nil
}
