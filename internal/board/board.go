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

// Package board reaches the hardware around the dashboard: the network
// link, the battery gauge, the real time clock and power management.
package board

import (
	"context"
	"time"

	"paperdash/internal/config"
)

type Network interface {
	// Up blocks until the link is usable or ctx/timeout expires.
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	// RSSI is the signal strength in dBm, valid after Up.
	RSSI() int
}

type Battery interface {
	// Capacity is the state of charge in percent.
	Capacity() (int, error)
}

type Clock interface {
	// Set adjusts the clock from a local epoch timestamp and its offset east of UTC.
	Set(local, offset int64) error
	Now() time.Time
}

type Power interface {
	// Down ends the cycle. The device wakes again after d.
	Down(ctx context.Context, d time.Duration) error
}

type Board struct {
	Network Network
	Battery Battery
	Clock   Clock
	Power   Power
}

// New builds the host implementations selected by the board and power config.
func New(appConf *config.Config) *Board {
	bc := appConf.Board

	var network Network = NoNetwork{}
	if bc.Network == "host" {
		network = NewHostNetwork(bc.Interface, bc.WirelessPath, time.Duration(bc.ConnectSeconds)*time.Second)
	}

	return &Board{
		Network: network,
		Battery: NewSysBattery(bc.BatteryPath),
		Clock:   NewClock(bc.Clock == "system"),
		Power:   NewPower(appConf.Power.Mode),
	}
}
