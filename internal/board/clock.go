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

package board

import (
	"sync"
	"time"

	"paperdash/pkg/logger"
)

// RTC keeps wall time for the device. The soft variant only tracks an
// offset to the host clock, the system variant sets the OS clock.
type RTC struct {
	mu     sync.Mutex
	system bool
	skew   time.Duration
	zone   *time.Location
	now    func() time.Time
	log    *logger.Logger
}

func NewClock(system bool) *RTC {
	return &RTC{
		system: system,
		zone:   time.UTC,
		now:    time.Now,
		log:    logger.New("Clock"),
	}
}

func (c *RTC) Set(local, offset int64) error {
	t := time.Unix(local-offset, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.zone = time.FixedZone("", int(offset))
	if c.system {
		if err := setSystemClock(t); err != nil {
			return err
		}
		c.skew = 0
	} else {
		c.skew = t.Sub(c.now())
	}
	c.log.Info("clock set to %s", t.In(c.zone).Format(time.DateTime))
	return nil
}

// Now is the current time in the zone of the last Set.
func (c *RTC) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Add(c.skew).In(c.zone)
}
