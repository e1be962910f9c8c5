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

package sensor

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Host reads a thermal sensor of the board itself. It has no humidity.
type Host struct {
	key string
}

func NewHost(key string) *Host {
	return &Host{key: key}
}

func (h *Host) Read(ctx context.Context) (Reading, error) {
	stats, err := host.SensorsTemperaturesWithContext(ctx)
	// partial results come back together with a warnings error
	if len(stats) == 0 && err != nil {
		return Reading{}, fmt.Errorf("host sensors: %w", err)
	}
	temp, err := pickTemperature(stats, h.key)
	if err != nil {
		return Reading{}, err
	}
	r := Reading{TemperatureC: temp, Source: "host"}
	return r, validate(r)
}

// pickTemperature returns the first sensor whose key contains key.
func pickTemperature(stats []host.TemperatureStat, key string) (float64, error) {
	for _, s := range stats {
		if strings.Contains(s.SensorKey, key) {
			return s.Temperature, nil
		}
	}
	return 0, fmt.Errorf("no host sensor matching %q among %d sensors", key, len(stats))
}
