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

package model

import (
	"os"
	"runtime"
)

// OnTargetHardware reports whether the process runs on the intended
// Raspberry-Pi-class host: Linux, hostname "raspberrypi". Everywhere else,
// sensor and GPIO calls are stubbed.
func OnTargetHardware() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	hostname, err := os.Hostname()
	if err != nil {
		return false
	}
	return hostname == "raspberrypi"
}
