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

// Package sensor reads the indoor temperature and humidity once per cycle.
package sensor

import (
	"context"
	"fmt"

	"paperdash/internal/config"
)

// Reading is one indoor measurement. Humidity is only valid when HasHumidity is set.
type Reading struct {
	TemperatureC float64
	Humidity     float64
	HasHumidity  bool
	Source       string
}

type Sensor interface {
	Read(ctx context.Context) (Reading, error)
}

// New returns the sensor selected by indoor.kind, nil for "none".
func New(appConf *config.Config) Sensor {
	ic := appConf.Indoor
	switch ic.Kind {
	case "modbus":
		return NewModbus(appConf.Path(ic.ModbusRegisters), ic.ModbusAddr)
	case "zwave":
		return NewZWave(ic.ZWaveAddr, ic.ZWaveNodeID)
	case "host":
		return NewHost(ic.HostSensor)
	default:
		return nil
	}
}

// validate rejects readings outside what an indoor sensor can report.
func validate(r Reading) error {
	if r.TemperatureC < -40 || r.TemperatureC > 60 {
		return fmt.Errorf("%s: temperature %.1fC out of range", r.Source, r.TemperatureC)
	}
	if r.HasHumidity && (r.Humidity < 0 || r.Humidity > 100) {
		return fmt.Errorf("%s: humidity %.1f%% out of range", r.Source, r.Humidity)
	}
	return nil
}

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}
