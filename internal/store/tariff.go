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

package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// TariffRow is one (country, city, company, start_time_hour, cost) tuple.
type TariffRow struct {
	CountryCode string
	City        string
	Company     string
	StartTime   int // hour of day, 0..23
	Cost        string
}

// TariffTable is created-if-missing in a local SQLite file, one table,
// exactly the cost_schedule schema described in the external interfaces.
type TariffTable struct {
	db *sql.DB
}

func OpenTariffTable(dbPath string) (*TariffTable, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening tariff database: %w", err)
	}

	t := &TariffTable{db: db}
	if err := t.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing tariff schema: %w", err)
	}
	return t, nil
}

func (t *TariffTable) initSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS cost_schedule (
			country_code VARCHAR(2),
			city VARCHAR(50),
			company VARCHAR(50),
			start_time INTEGER,
			cost VARCHAR(8),
			PRIMARY KEY(country_code, city, company, start_time, cost)
		);
	`
	_, err := t.db.Exec(schema)
	return err
}

// Select returns {start_time_hour -> cost} for the given (country_code, city),
// matching the "select start_time,cost where country_code=.. and city=.."
// query used by the control loop's energy_cost term.
func (t *TariffTable) Select(countryCode, city string) (map[int]string, error) {
	rows, err := t.db.Query(
		`SELECT start_time, cost FROM cost_schedule WHERE country_code = ? AND city = ?`,
		countryCode, city,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting tariff rows: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var hour int
		var cost string
		if err := rows.Scan(&hour, &cost); err != nil {
			return nil, err
		}
		out[hour] = cost
	}
	return out, rows.Err()
}

// Insert appends row and commits immediately (SQLite autocommits outside an
// explicit transaction, satisfying the requirement that a commit happen, or
// auto-called per write, before values are visible").
func (t *TariffTable) Insert(row TariffRow) error {
	_, err := t.db.Exec(
		`INSERT OR REPLACE INTO cost_schedule (country_code, city, company, start_time, cost) VALUES (?, ?, ?, ?, ?)`,
		row.CountryCode, row.City, row.Company, row.StartTime, row.Cost,
	)
	return err
}

// InsertCSV bulk-loads rows from a CSV file (country_code,city,company,start_time,cost)
// as a single transaction, the first-run bootstrap path original_source's
// sql.py hinted at but never formalized.
func (t *TariffTable) InsertCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening tariff csv: %w", err)
	}
	defer f.Close()

	tx, err := t.db.Begin()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO cost_schedule (country_code, city, company, start_time, cost) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	reader := csv.NewReader(f)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tx.Rollback()
			return count, fmt.Errorf("reading tariff csv: %w", err)
		}
		if len(record) != 5 {
			continue
		}
		startTime, err := strconv.Atoi(record[3])
		if err != nil {
			tx.Rollback()
			return count, fmt.Errorf("parsing start_time %q: %w", record[3], err)
		}
		if _, err := stmt.Exec(record[0], record[1], record[2], startTime, record[4]); err != nil {
			tx.Rollback()
			return count, err
		}
		count++
	}

	return count, tx.Commit()
}

func (t *TariffTable) Close() error {
	return t.db.Close()
}
