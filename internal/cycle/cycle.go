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

// Package cycle runs one wake of the dashboard: network up, fetch, set the
// clock, render, publish, network down and power down.
package cycle

import (
	"context"
	"errors"
	"time"

	"paperdash/internal/board"
	"paperdash/internal/events"
	"paperdash/internal/schedule"
	"paperdash/internal/sensor"
	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"
	"paperdash/pkg/logger"

	"github.com/google/uuid"
)

// Source fills its part of the snapshot. A nil error means success.
type Source interface {
	Name() string
	Get(ctx context.Context, snap *snapshot.Snapshot) error
}

// Sink receives the finished snapshot.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap *snapshot.Snapshot) error
}

type Display interface {
	Show(ctx context.Context, snap *snapshot.Snapshot) error
}

// Deps are the collaborators of a cycle. Indoor may be nil.
type Deps struct {
	Board    *board.Board
	Indoor   sensor.Sensor
	Sources  []Source
	Display  Display
	Schedule schedule.Scheduler
	Bus      *eventbus.Bus

	// Remote sinks need the network, Local sinks run on every path.
	Remote []Sink
	Local  []Sink

	// RenderOnNetworkFailure draws the default snapshot when the network
	// does not come up, instead of leaving the last frame on the panel.
	RenderOnNetworkFailure bool
	RainFloor              int
}

type Result struct {
	CycleID      string
	NetworkOK    bool
	WeatherOK    bool
	Rendered     bool
	SleepMinutes int
	Snapshot     *snapshot.Snapshot
}

type Cycle struct {
	deps Deps
	now  func() time.Time
	log  *logger.Logger
}

func New(deps Deps) *Cycle {
	if deps.RainFloor < 1 {
		deps.RainFloor = snapshot.DefaultRainFloor
	}
	return &Cycle{
		deps: deps,
		now:  time.Now,
		log:  logger.New("Cycle"),
	}
}

// RunOnce performs one cycle up to, but not including, power down.
// Failures of single steps are logged and never abort the cycle.
func (c *Cycle) RunOnce(ctx context.Context) Result {
	start := c.now()
	snap := snapshot.New(c.deps.RainFloor)
	snap.CycleID = uuid.NewString()
	res := Result{CycleID: snap.CycleID, Snapshot: snap}

	c.log.Info("cycle %s start", snap.CycleID)
	b := c.deps.Board

	if err := b.Network.Up(ctx); err != nil {
		c.log.Error("network: %v", err)
		return c.networkFailure(ctx, start, res)
	}
	res.NetworkOK = true
	snap.WifiRSSI = b.Network.RSSI()

	c.readBattery(snap)
	c.readIndoor(ctx, snap)

	for _, src := range c.deps.Sources {
		if ctx.Err() != nil {
			c.log.Info("cycle canceled before %s", src.Name())
			break
		}
		err := src.Get(ctx, snap)
		snap.Sources[src.Name()] = err == nil
		if err != nil {
			c.log.Error("%s: %v", src.Name(), err)
		}
	}

	res.WeatherOK = snap.Weather.Success
	switch {
	case !res.WeatherOK:
	case snap.Weather.CurrentTime <= 0:
		c.log.Warn("weather carried no timestamp, clock left as is")
	default:
		if err := b.Clock.Set(snap.Weather.CurrentTime, snap.Weather.CurrentTimeOffset); err != nil {
			c.log.Error("clock: %v", err)
		}
	}

	res.SleepMinutes = c.deps.Schedule.At(b.Clock.Now(), res.WeatherOK)
	snap.NextWakeMinutes = res.SleepMinutes

	snap.Dump(c.log)
	res.Rendered = c.render(ctx, snap)

	c.publish(ctx, start, snap, c.deps.Remote, c.deps.Local)

	if err := b.Network.Down(ctx); err != nil {
		c.log.Error("network down: %v", err)
	}
	c.log.Info("cycle %s done in %v, weather ok=%v, sleeping %d min",
		snap.CycleID, c.now().Sub(start).Round(time.Millisecond), res.WeatherOK, res.SleepMinutes)
	return res
}

// networkFailure skips every fetch and the clock, and optionally renders defaults.
func (c *Cycle) networkFailure(ctx context.Context, start time.Time, res Result) Result {
	snap := res.Snapshot
	res.SleepMinutes = c.deps.Schedule.NetworkDown()
	snap.NextWakeMinutes = res.SleepMinutes

	c.readBattery(snap)
	if c.deps.RenderOnNetworkFailure {
		snap.Dump(c.log)
		res.Rendered = c.render(ctx, snap)
	}
	c.publish(ctx, start, snap, nil, c.deps.Local)
	return res
}

func (c *Cycle) readBattery(snap *snapshot.Snapshot) {
	capacity, err := c.deps.Board.Battery.Capacity()
	if err != nil {
		c.log.Error("battery: %v", err)
		return
	}
	snap.BatteryCapacity = capacity
}

func (c *Cycle) readIndoor(ctx context.Context, snap *snapshot.Snapshot) {
	if c.deps.Indoor == nil {
		return
	}
	r, err := c.deps.Indoor.Read(ctx)
	snap.Sources["indoor"] = err == nil
	if err != nil {
		c.log.Error("indoor: %v", err)
		return
	}
	snap.IndoorTemp = r.TemperatureC
	if r.HasHumidity {
		snap.IndoorHumidity = r.Humidity
	}
	if c.deps.Bus != nil {
		c.deps.Bus.Publish(events.TopicIndoor, events.IndoorUpdate{
			TemperatureC: r.TemperatureC,
			Humidity:     snap.IndoorHumidity,
			Source:       r.Source,
			Time:         c.now(),
		})
	}
}

func (c *Cycle) render(ctx context.Context, snap *snapshot.Snapshot) bool {
	if err := c.deps.Display.Show(ctx, snap); err != nil {
		c.log.Error("display: %v", err)
		return false
	}
	return true
}

type cycleObserver interface {
	ObserveCycle(d time.Duration)
}

func (c *Cycle) publish(ctx context.Context, start time.Time, snap *snapshot.Snapshot, sinkLists ...[]Sink) {
	if c.deps.Bus != nil {
		c.deps.Bus.Publish(events.TopicSnapshot, events.SnapshotUpdate{
			Snapshot: snap.Clone(),
			Time:     c.now(),
		})
	}
	for _, sinks := range sinkLists {
		for _, s := range sinks {
			if o, ok := s.(cycleObserver); ok {
				o.ObserveCycle(c.now().Sub(start))
			}
			if err := s.Publish(ctx, snap); err != nil {
				c.log.Error("publish %s: %v", s.Name(), err)
			}
		}
	}
}

// Run is RunOnce followed by power down, the terminal step of every wake.
func (c *Cycle) Run(ctx context.Context) {
	res := c.RunOnce(ctx)
	err := c.deps.Board.Power.Down(ctx, time.Duration(res.SleepMinutes)*time.Minute)
	switch {
	case errors.Is(err, context.Canceled):
		c.log.Info("power down interrupted")
	case err != nil:
		c.log.Error("power down: %v", err)
	}
}

func (c *Cycle) String() string { return "cycle" }
