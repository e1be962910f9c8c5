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

package schedule

import (
	"testing"
	"time"

	"paperdash/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestFailureAlwaysRetries(t *testing.T) {
	s := Default()
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 7 {
			assert.Equal(t, 2, s.SleepMinutes(h, m, false), "%02d:%02d", h, m)
		}
	}
}

func TestQuietWindow(t *testing.T) {
	s := Default()
	for h := 0; h < 5; h++ {
		for m := 0; m < 60; m++ {
			want := min((5-h)*60-m, 120)
			assert.Equal(t, want, s.SleepMinutes(h, m, true), "%02d:%02d", h, m)
		}
	}
	assert.Equal(t, 120, s.SleepMinutes(0, 0, true))
	assert.Equal(t, 1, s.SleepMinutes(4, 59, true))
}

func TestCadence(t *testing.T) {
	s := Default()
	for h := 5; h < 24; h++ {
		assert.Equal(t, 30, s.SleepMinutes(h, 17, true))
	}
}

func TestFromConfig(t *testing.T) {
	s := New(config.ScheduleConfig{
		FailureRetryMinutes: 5,
		WindowStartHour:     22,
		WindowEndHour:       24,
		WindowCapMinutes:    60,
		CadenceMinutes:      15,
	})
	assert.Equal(t, 60, s.SleepMinutes(22, 10, true))
	assert.Equal(t, 50, s.At(time.Date(2024, 1, 1, 23, 10, 0, 0, time.UTC), true))
	assert.Equal(t, 15, s.SleepMinutes(21, 0, true))
	assert.Equal(t, 5, s.NetworkDown())
}
