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

// Package schedule decides how long the device sleeps after a cycle.
package schedule

import (
	"time"

	"paperdash/internal/config"
)

// Scheduler holds the sleep policy. Minutes unless named otherwise.
type Scheduler struct {
	FailureRetry int
	WindowStart  int // hour, inclusive
	WindowEnd    int // hour, exclusive
	WindowCap    int
	Cadence      int
}

func Default() Scheduler {
	return Scheduler{FailureRetry: 2, WindowStart: 0, WindowEnd: 5, WindowCap: 120, Cadence: 30}
}

func New(c config.ScheduleConfig) Scheduler {
	return Scheduler{
		FailureRetry: c.FailureRetryMinutes,
		WindowStart:  c.WindowStartHour,
		WindowEnd:    c.WindowEndHour,
		WindowCap:    c.WindowCapMinutes,
		Cadence:      c.CadenceMinutes,
	}
}

// SleepMinutes returns the delay until the next wake. A failed weather fetch
// always retries soon; inside the quiet window the device sleeps until the
// window ends, capped.
func (s Scheduler) SleepMinutes(hour, minute int, weatherOK bool) int {
	if !weatherOK {
		return s.FailureRetry
	}
	if hour >= s.WindowStart && hour < s.WindowEnd {
		return min((s.WindowEnd-hour)*60-minute, s.WindowCap)
	}
	return s.Cadence
}

// At is SleepMinutes for a wall clock time.
func (s Scheduler) At(t time.Time, weatherOK bool) int {
	return s.SleepMinutes(t.Hour(), t.Minute(), weatherOK)
}

// NetworkDown is the sleep used when no network came up.
func (s Scheduler) NetworkDown() int {
	return s.FailureRetry
}
