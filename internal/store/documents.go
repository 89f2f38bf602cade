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

// Package store implements the persistent store: the
// settings and history JSON documents and the tariff table.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"thermocore/internal/model"
)

// loadOrSeed returns the parsed contents of path; if path is missing, it
// copies from defaultPath, writes path, and returns the copy. Failure to
// parse an existing user file is a PersistenceError and is fatal at
// startup.
func loadOrSeed(path, defaultPath string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: reading %s: %v", model.ErrPersistence, path, err)
		}
		data, err = os.ReadFile(defaultPath)
		if err != nil {
			return fmt.Errorf("%w: reading default %s: %v", model.ErrPersistence, defaultPath, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("%w: seeding %s: %v", model.ErrPersistence, path, err)
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", model.ErrPersistence, path, err)
	}
	return nil
}

// saveAtomic writes v to path via a temp file + rename, so a crash mid-write
// never leaves a truncated document on disk.
func saveAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// SettingsStore loads/saves the settings document.
type SettingsStore struct {
	path        string
	defaultPath string
}

func NewSettingsStore(path, defaultPath string) *SettingsStore {
	return &SettingsStore{path: path, defaultPath: defaultPath}
}

func (s *SettingsStore) Load() (*model.Settings, error) {
	settings := model.NewSettings()
	if err := loadOrSeed(s.path, s.defaultPath, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *SettingsStore) Save(settings *model.Settings) error {
	return saveAtomic(s.path, settings)
}

// HistoryStore loads/saves the weekly history grid.
type HistoryStore struct {
	path        string
	defaultPath string
}

func NewHistoryStore(path, defaultPath string) *HistoryStore {
	return &HistoryStore{path: path, defaultPath: defaultPath}
}

func (s *HistoryStore) Load() (*model.HistoryGrid, error) {
	grid := model.NewHistoryGrid()
	if err := loadOrSeed(s.path, s.defaultPath, grid); err != nil {
		return nil, err
	}
	return grid, nil
}

func (s *HistoryStore) Save(grid *model.HistoryGrid) error {
	return saveAtomic(s.path, grid)
}
