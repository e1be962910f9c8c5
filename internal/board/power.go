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
	"context"
	"time"

	"paperdash/pkg/logger"
)

// HostPower ends a cycle. "exit" returns so the process can exit and an
// external timer restarts it. "reexec" waits out the interval and then
// replaces the process image, the equivalent of a reset.
type HostPower struct {
	mode string
	exec func() error
	log  *logger.Logger
}

func NewPower(mode string) *HostPower {
	return &HostPower{
		mode: mode,
		exec: execSelf,
		log:  logger.New("Power"),
	}
}

func (p *HostPower) Down(ctx context.Context, d time.Duration) error {
	p.log.Info("power down, next wake in %v at %s", d, time.Now().Add(d).Format(time.TimeOnly))
	if p.mode != "reexec" {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	return p.exec()
}
