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

package cycle

import (
	"context"
	"math"
	"time"

	"paperdash/internal/events"
	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"
	"paperdash/pkg/logger"
)

type StatusDisplay interface {
	ShowStatusInfo(ctx context.Context, snap *snapshot.Snapshot) error
}

// StatusRefresher redraws the status quadrant while the process waits for
// the next wake, counting the next wake down. It starts with the first
// published snapshot, which arrives after the full render.
type StatusRefresher struct {
	display  StatusDisplay
	eb       *eventbus.Bus
	interval time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewStatusRefresher(d StatusDisplay, eb *eventbus.Bus, interval time.Duration) *StatusRefresher {
	return &StatusRefresher{
		display:  d,
		eb:       eb,
		interval: interval,
		now:      time.Now,
		log:      logger.New("StatusRefresh"),
	}
}

func (s *StatusRefresher) Run(ctx context.Context) {
	ch, unsubscribe := s.eb.Subscribe(ctx, events.TopicSnapshot, true)
	defer unsubscribe()

	var last events.SnapshotUpdate
	select {
	case <-ctx.Done():
		return
	case ev, ok := <-ch:
		if !ok {
			return
		}
		if last, ok = ev.(events.SnapshotUpdate); !ok {
			return
		}
	}

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if u, ok := ev.(events.SnapshotUpdate); ok {
				last = u
			}
		case <-tick.C:
			if err := s.display.ShowStatusInfo(ctx, s.remaining(last)); err != nil {
				s.log.Error("status: %v", err)
			}
		}
	}
}

// remaining returns a copy of the snapshot with the next wake counted down.
func (s *StatusRefresher) remaining(u events.SnapshotUpdate) *snapshot.Snapshot {
	snap := u.Snapshot.Clone()
	wake := u.Time.Add(time.Duration(snap.NextWakeMinutes) * time.Minute)
	snap.NextWakeMinutes = max(0, int(math.Ceil(wake.Sub(s.now()).Minutes())))
	return snap
}

func (s *StatusRefresher) String() string { return "status refresher" }
