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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Settings is an insertion-ordered mapping from string key to value, where
// value is one of string, float64, []any or a one-level-deep map[string]any.
// Keys starting with "_" are private: excluded from the UI-facing prettified
// view.
type Settings struct {
	order  []string
	values map[string]any
}

// NewSettings returns an empty, ready-to-use Settings document.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// Get returns the raw value for name and whether it exists.
func (s *Settings) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set inserts or updates name. New keys are appended to the insertion order;
// existing keys keep their position. The value must satisfy the closed sum
// described in the package doc, checked to depth one.
func (s *Settings) Set(name string, value any) error {
	if err := validateSettingValue(value); err != nil {
		return err
	}
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	return nil
}

// Keys returns the keys in insertion order.
func (s *Settings) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func validateSettingValue(value any) error {
	switch v := value.(type) {
	case string, float64, nil:
		return nil
	case []any:
		return nil
	case map[string]any:
		for _, sub := range v {
			switch sub.(type) {
			case string, float64, nil, []any:
				continue
			default:
				return fmt.Errorf("%w: nested value must be scalar", ErrSettingsTooDeep)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported settings value type %T", ErrSettingsTooDeep, value)
	}
}

// MarshalJSON renders the document preserving insertion order.
func (s *Settings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a settings document while recording key order as it
// appears in the input and rejecting nesting deeper than one level.
func (s *Settings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: settings document must be a JSON object", ErrPersistence)
	}

	s.order = nil
	s.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: settings keys must be strings", ErrPersistence)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		normalized, err := normalizeSettingValue(raw)
		if err != nil {
			return err
		}
		if _, exists := s.values[key]; !exists {
			s.order = append(s.order, key)
		}
		s.values[key] = normalized
	}
	return nil
}

func normalizeSettingValue(raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		for subKey, subVal := range v {
			switch subVal.(type) {
			case map[string]any:
				return nil, fmt.Errorf("%w: key nested more than one level", ErrSettingsTooDeep)
			default:
				_ = subKey
			}
		}
		return v, nil
	default:
		return v, nil
	}
}

// Filtered returns a copy of the document excluding any key starting with "_".
func (s *Settings) Filtered() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, k := range s.order {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = s.values[k]
	}
	return out
}
