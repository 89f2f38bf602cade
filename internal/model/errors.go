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

import "errors"

// Behavioral error taxonomy. Callers use errors.Is/errors.As against these
// sentinels rather than matching on type names.
var (
	// ErrValidation: user-supplied input outside the permitted domain.
	ErrValidation = errors.New("validation error")

	// ErrSensorUnavailable: the 1-wire device file is absent.
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrSensorChecksum: the CRC token on line 1 was not YES.
	ErrSensorChecksum = errors.New("sensor checksum failed")
	// ErrSensorParse: the output did not contain a parseable t=<milli> field.
	ErrSensorParse = errors.New("sensor parse failed")

	// ErrTransientRemote: network or service unavailability, recoverable.
	ErrTransientRemote = errors.New("transient remote error")
	// ErrFatalRemote: any other weather-client failure.
	ErrFatalRemote = errors.New("fatal remote error")

	// ErrPersistence: unparseable JSON at startup. Fatal.
	ErrPersistence = errors.New("persistence error")

	// ErrProtocol: malformed inbound message, unknown action, missing fields.
	ErrProtocol = errors.New("protocol error")

	// ErrSettingsTooDeep: a settings document nested more than one level deep.
	ErrSettingsTooDeep = errors.New("settings nested too deep")
)

// ValidationError carries a human-readable reason alongside ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
