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

// Package snapshot holds everything fetched or measured during one wake cycle.
package snapshot

import (
	"math"

	"paperdash/pkg/logger"
)

const (
	DailyCount  = 5
	HourlyCount = 25

	// DefaultRainFloor is the lowest top of the precipitation axis, in mm/h.
	DefaultRainFloor = 1
)

type Daily struct {
	Time    int64 // local epoch seconds
	MaxTemp float64
	Main    string
	Icon    string
}

type Weather struct {
	Success bool

	CurrentTime       int64 // local epoch seconds
	CurrentTimeOffset int64 // seconds east of UTC
	Sunrise           int64
	Sunset            int64

	WindSpeed     float64 // m/s
	Temp          float64
	TempFeelsLike float64
	Humidity      float64
	Icon          string

	Daily      [DailyCount]Daily
	HourlyTemp [HourlyCount]float64
	HourlyRain [HourlyCount]float64
	HourlySnow [HourlyCount]float64

	MinTemp int
	MaxTemp int
	MaxRain int
}

// NewWeather returns an empty weather block with valid graph bounds.
func NewWeather(rainFloor int) Weather {
	return Weather{MinTemp: 0, MaxTemp: 5, MaxRain: rainFloor}
}

// UpdateBounds recomputes the graph axis bounds over the first n hourly
// entries. It never carries values over from a previous call.
func (w *Weather) UpdateBounds(n, rainFloor int) {
	if n > HourlyCount {
		n = HourlyCount
	}
	w.MinTemp, w.MaxTemp, w.MaxRain = 0, 5, rainFloor
	if n <= 0 {
		return
	}

	minT, maxT, maxR := math.Inf(1), math.Inf(-1), 0.0
	for i := 0; i < n; i++ {
		minT = math.Min(minT, w.HourlyTemp[i])
		maxT = math.Max(maxT, w.HourlyTemp[i])
		maxR = math.Max(maxR, math.Max(w.HourlyRain[i], w.HourlySnow[i]))
	}

	w.MaxTemp = max(5, int(math.Ceil(maxT))+1)
	// the axis only drops below zero for frost
	if minT < 0 {
		w.MinTemp = int(math.Floor(minT)) - 1
	}
	w.MaxRain = max(rainFloor, int(math.Ceil(maxR))+1)
}

// Snapshot is created fresh each cycle, filled by the sources and sensors
// and only read afterwards.
type Snapshot struct {
	CycleID string

	IndoorTemp      float64
	IndoorHumidity  float64
	WifiRSSI        int
	BatteryCapacity int

	Weather Weather

	Astronauts int

	CoronaName              string
	CoronaUpdated           string
	CoronaWeekIncidence     float64
	CoronaNationalIncidence float64

	MapsWorkDuration int // minutes home to work
	MapsHomeDuration int // minutes work to home

	LeagueNextTeam1 string
	LeagueNextTeam2 string
	LeagueNextTime  string
	LeagueMatchday  string

	Catfact string

	NextWakeMinutes int

	// Sources records the outcome of every source that ran.
	Sources map[string]bool
}

func New(rainFloor int) *Snapshot {
	return &Snapshot{
		Weather: NewWeather(rainFloor),
		Sources: make(map[string]bool),
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Sources = make(map[string]bool, len(s.Sources))
	for k, v := range s.Sources {
		c.Sources[k] = v
	}
	return &c
}

// Dump writes every field to the log at debug level.
func (s *Snapshot) Dump(log *logger.Logger) {
	if !logger.IsDebug() {
		return
	}
	w := &s.Weather
	log.Debug("cycle %s", s.CycleID)
	log.Debug("indoor %.1fC %.0f%%, wifi %ddBm, battery %d%%", s.IndoorTemp, s.IndoorHumidity, s.WifiRSSI, s.BatteryCapacity)
	log.Debug("weather ok=%v time=%d offset=%d sunrise=%d sunset=%d", w.Success, w.CurrentTime, w.CurrentTimeOffset, w.Sunrise, w.Sunset)
	log.Debug("weather wind=%.1fm/s temp=%.1f feels=%.1f humidity=%.0f icon=%q", w.WindSpeed, w.Temp, w.TempFeelsLike, w.Humidity, w.Icon)
	for i, d := range w.Daily {
		log.Debug("daily[%d] time=%d max=%.1f main=%q icon=%q", i, d.Time, d.MaxTemp, d.Main, d.Icon)
	}
	log.Debug("hourly temp %v", w.HourlyTemp)
	log.Debug("hourly rain %v", w.HourlyRain)
	log.Debug("hourly snow %v", w.HourlySnow)
	log.Debug("bounds temp %d..%d rain 0..%d", w.MinTemp, w.MaxTemp, w.MaxRain)
	log.Debug("astronauts %d", s.Astronauts)
	log.Debug("corona %q updated %q local %.1f national %.1f", s.CoronaName, s.CoronaUpdated, s.CoronaWeekIncidence, s.CoronaNationalIncidence)
	log.Debug("maps work %dmin home %dmin", s.MapsWorkDuration, s.MapsHomeDuration)
	log.Debug("league %q vs %q at %q, %q", s.LeagueNextTeam1, s.LeagueNextTeam2, s.LeagueNextTime, s.LeagueMatchday)
	log.Debug("catfact %q", s.Catfact)
	log.Debug("next wake in %d min, sources %v", s.NextWakeMinutes, s.Sources)
}
