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

package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"paperdash/pkg/logger"
)

// Runnable is the common interface for everything started next to the cycle.
type Runnable interface {
	Run(ctx context.Context)
}

// Func adapts a plain function to Runnable.
type Func func(ctx context.Context)

func (f Func) Run(ctx context.Context) { f(ctx) }

// Start runs every service in its own goroutine. A panic in one of them is
// logged, cancels the shared context and turns the exit code into -1.
// The returned channel yields the exit code once all services returned.
func Start(ctx context.Context, ctxCancel context.CancelFunc, services []Runnable) <-chan int {
	wg := &sync.WaitGroup{}

	var exitCode atomic.Int32
	exitCh := make(chan int, 1)

	log := logger.New("Panic")

	for _, s := range services {
		svc := s
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("%s: %v\n%s", name(svc), r, debug.Stack())
					exitCode.Store(-1)
					ctxCancel()
				}
			}()
			svc.Run(ctx)
		})
	}

	go func() {
		wg.Wait()
		exitCh <- int(exitCode.Load())
	}()

	return exitCh
}

func name(r Runnable) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}
