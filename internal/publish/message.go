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

package publish

import (
	"time"

	"paperdash/internal/snapshot"
)

// Message is the published form of a cycle snapshot.
type Message struct {
	CycleID   string    `json:"cycle_id"`
	Timestamp time.Time `json:"timestamp"`

	IndoorTemp      float64 `json:"indoor_temperature_c"`
	IndoorHumidity  float64 `json:"indoor_humidity_pct"`
	WifiRSSI        int     `json:"wifi_rssi_dbm"`
	BatteryCapacity int     `json:"battery_pct"`

	WeatherOK     bool     `json:"weather_ok"`
	OutdoorTemp   *float64 `json:"outdoor_temperature_c,omitempty"`
	FeelsLike     *float64 `json:"feels_like_c,omitempty"`
	Humidity      *float64 `json:"outdoor_humidity_pct,omitempty"`
	WindSpeed     *float64 `json:"wind_speed_ms,omitempty"`
	RainNextHour  *float64 `json:"rain_next_hour_mm,omitempty"`
	Astronauts    int      `json:"astronauts"`
	WeekIncidence float64  `json:"week_incidence"`
	ToWorkMinutes int      `json:"to_work_min"`
	ToHomeMinutes int      `json:"to_home_min"`

	NextWakeMinutes int             `json:"next_wake_min"`
	Sources         map[string]bool `json:"sources"`
}

func FromSnapshot(snap *snapshot.Snapshot, at time.Time) Message {
	m := Message{
		CycleID:         snap.CycleID,
		Timestamp:       at.UTC(),
		IndoorTemp:      snap.IndoorTemp,
		IndoorHumidity:  snap.IndoorHumidity,
		WifiRSSI:        snap.WifiRSSI,
		BatteryCapacity: snap.BatteryCapacity,
		WeatherOK:       snap.Weather.Success,
		Astronauts:      snap.Astronauts,
		WeekIncidence:   snap.CoronaWeekIncidence,
		ToWorkMinutes:   snap.MapsWorkDuration,
		ToHomeMinutes:   snap.MapsHomeDuration,
		NextWakeMinutes: snap.NextWakeMinutes,
		Sources:         snap.Sources,
	}
	if w := snap.Weather; w.Success {
		m.OutdoorTemp = &w.Temp
		m.FeelsLike = &w.TempFeelsLike
		m.Humidity = &w.Humidity
		m.WindSpeed = &w.WindSpeed
		m.RainNextHour = &w.HourlyRain[0]
	}
	return m
}
