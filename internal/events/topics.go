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

package events

import (
	"image"
	"time"

	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"
)

var (
	TopicSnapshot eventbus.Topic = "snapshot"
	TopicFrame    eventbus.Topic = "frame"
	TopicIndoor   eventbus.Topic = "indoor"
)

// SnapshotUpdate carries a copy of the cycle snapshot after the fetch phase.
type SnapshotUpdate struct {
	Snapshot *snapshot.Snapshot
	Time     time.Time
}

// FrameUpdate is one push to the panel, PNG encoded.
type FrameUpdate struct {
	PNG  []byte
	At   image.Point
	Full bool
	Time time.Time
}

type IndoorUpdate struct {
	TemperatureC float64
	Humidity     float64
	Source       string
	Time         time.Time
}
