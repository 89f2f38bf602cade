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
	"fmt"
	"strings"
)

// PrettifySettings flattens Settings one level deep for display: private
// keys are dropped, snake_case becomes Title Case, scalars are stringified
// and lists have their elements stringified. Nested maps contribute one
// "Parent Child" entry per sub-key.
func PrettifySettings(s *Settings) map[string]string {
	pretty := make(map[string]string)
	for _, name := range s.Keys() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		value := s.values[name]
		prettyName := titleCase(name)

		switch v := value.(type) {
		case map[string]any:
			for subName, subValue := range v {
				combined := prettyName + " " + titleCase(subName)
				pretty[combined] = stringifyValue(subValue)
			}
		default:
			pretty[prettyName] = stringifyValue(value)
		}
	}
	return pretty
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = stringifyScalar(item)
		}
		return strings.Join(parts, ", ")
	default:
		return stringifyScalar(t)
	}
}

func stringifyScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return trimFloat(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

func titleCase(snake string) string {
	words := strings.Split(snake, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// UnprettifySettingName maps a pretty display name (e.g. "House Size") back
// to the raw setting key it came from, and returns the value that should be
// written -- either the raw scalar itself, or an updated copy of the raw
// one-level nested map with only the matching sub-key replaced. Unknown
// names return ok=false and must be ignored by the caller.
func UnprettifySettingName(s *Settings, prettyName string, newValue any) (rawName string, rawValue any, ok bool) {
	rawCandidate := strings.ToLower(strings.ReplaceAll(prettyName, " ", "_"))

	for _, name := range s.Keys() {
		if name == rawCandidate {
			return name, newValue, true
		}
		if strings.HasPrefix(rawCandidate, name+"_") {
			nested, isMap := s.values[name].(map[string]any)
			if !isMap {
				continue
			}
			updated := make(map[string]any, len(nested))
			matched := false
			for subName, subValue := range nested {
				if strings.HasSuffix(rawCandidate, subName) {
					updated[subName] = newValue
					matched = true
				} else {
					updated[subName] = subValue
				}
			}
			if !matched {
				continue
			}
			return name, updated, true
		}
	}
	return "", nil, false
}
