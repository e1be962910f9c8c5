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

// Package journal keeps a write-only sqlite record of every cycle.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
  cycle_id        TEXT    PRIMARY KEY,
  ts              TEXT    NOT NULL,
  weather_ok      INTEGER NOT NULL,
  sources_failed  TEXT    NOT NULL DEFAULT '',
  indoor_temp     REAL,
  indoor_humidity REAL,
  outdoor_temp    REAL,
  battery         INTEGER,
  wifi_rssi       INTEGER,
  next_wake       INTEGER
);
CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(ts);
`

// Entry is one recorded cycle.
type Entry struct {
	CycleID        string
	Time           time.Time
	WeatherOK      bool
	SourcesFailed  []string
	IndoorTemp     float64
	IndoorHumidity float64
	OutdoorTemp    sql.NullFloat64
	Battery        int
	WifiRSSI       int
	NextWake       int
}

type Journal struct {
	db  *sql.DB
	now func() time.Time
	log *logger.Logger
}

// Open creates the database file and its directory if needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return OpenDSN(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
}

// OpenDSN opens any go-sqlite3 DSN, ":memory:" included.
func OpenDSN(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// one connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return &Journal{
		db:  db,
		now: time.Now,
		log: logger.New("Journal"),
	}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Name() string { return "journal" }

// Publish records snap as one cycle.
func (j *Journal) Publish(ctx context.Context, snap *snapshot.Snapshot) error {
	var failed []string
	for name, ok := range snap.Sources {
		if !ok {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	var outdoor sql.NullFloat64
	if snap.Weather.Success {
		outdoor = sql.NullFloat64{Float64: snap.Weather.Temp, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cycles
		  (cycle_id, ts, weather_ok, sources_failed, indoor_temp, indoor_humidity, outdoor_temp, battery, wifi_rssi, next_wake)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.CycleID,
		j.now().UTC().Format(time.RFC3339),
		snap.Weather.Success,
		strings.Join(failed, ","),
		snap.IndoorTemp,
		snap.IndoorHumidity,
		outdoor,
		snap.BatteryCapacity,
		snap.WifiRSSI,
		snap.NextWakeMinutes,
	)
	if err != nil {
		return fmt.Errorf("insert cycle %s: %w", snap.CycleID, err)
	}
	j.log.Debug("recorded cycle %s", snap.CycleID)
	return nil
}

// Recent returns the latest n cycles, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT cycle_id, ts, weather_ok, sources_failed, indoor_temp, indoor_humidity, outdoor_temp, battery, wifi_rssi, next_wake
		FROM cycles ORDER BY ts DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts, failed string
		if err := rows.Scan(&e.CycleID, &ts, &e.WeatherOK, &failed, &e.IndoorTemp, &e.IndoorHumidity,
			&e.OutdoorTemp, &e.Battery, &e.WifiRSSI, &e.NextWake); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		e.Time, _ = time.Parse(time.RFC3339, ts)
		if failed != "" {
			e.SourcesFailed = strings.Split(failed, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
