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

package sensor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermocore/internal/config"
	"thermocore/internal/model"
)

func writeDevice(t *testing.T, dir, content string) string {
	t.Helper()
	devDir := filepath.Join(dir, "28-0000001")
	require.NoError(t, os.MkdirAll(devDir, 0755))
	path := filepath.Join(devDir, "w1_slave")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_ParsesValidReading(t *testing.T) {
	dir := t.TempDir()
	writeDevice(t, dir, "a1 b2 c3 : crc=4d YES\na1 b2 t=21500\n")

	r := New(config.SensorConfig{DeviceGlob: filepath.Join(dir, "28-*", "w1_slave")})
	v, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "21.5", v.String())
}

func TestRead_BadChecksumIsError(t *testing.T) {
	dir := t.TempDir()
	writeDevice(t, dir, "a1 b2 c3 : crc=4d NO\na1 b2 t=21500\n")

	r := New(config.SensorConfig{DeviceGlob: filepath.Join(dir, "28-*", "w1_slave")})
	_, err := r.Read()
	assert.ErrorIs(t, err, model.ErrSensorChecksum)
}

func TestRead_MissingTFieldIsParseError(t *testing.T) {
	dir := t.TempDir()
	writeDevice(t, dir, "a1 b2 c3 : crc=4d YES\na1 b2 nothing-here\n")

	r := New(config.SensorConfig{DeviceGlob: filepath.Join(dir, "28-*", "w1_slave")})
	_, err := r.Read()
	assert.ErrorIs(t, err, model.ErrSensorParse)
}

func TestRead_NoDeviceIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	r := New(config.SensorConfig{DeviceGlob: filepath.Join(dir, "28-*", "w1_slave")})
	_, err := r.Read()
	assert.ErrorIs(t, err, model.ErrSensorUnavailable)
}
