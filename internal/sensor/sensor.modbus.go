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

	"paperdash/pkg/logger"
	"paperdash/pkg/modbus"
)

const (
	registerTemperature = "temperature"
	registerHumidity    = "humidity"
)

// Modbus reads a Modbus TCP transmitter described by a yaml register map
// with a "temperature" and an optional "humidity" register.
type Modbus struct {
	registers string
	addr      string
	log       *logger.Logger
}

func NewModbus(registers, addr string) *Modbus {
	return &Modbus{
		registers: registers,
		addr:      addr,
		log:       logger.New("IndoorModbus"),
	}
}

func (m *Modbus) Read(ctx context.Context) (Reading, error) {
	conf, err := modbus.LoadConfig(m.registers)
	if err != nil {
		return Reading{}, err
	}
	if _, ok := conf.Registers[registerTemperature]; !ok {
		return Reading{}, fmt.Errorf("register map %s has no %q register", m.registers, registerTemperature)
	}

	client, err := modbus.NewClient(ctx, m.addr, conf)
	if err != nil {
		return Reading{}, err
	}
	defer client.Close()

	r := Reading{Source: "modbus"}
	if r.TemperatureC, err = client.ReadFloat(ctx, registerTemperature); err != nil {
		return Reading{}, err
	}
	if _, ok := conf.Registers[registerHumidity]; ok {
		if r.Humidity, err = client.ReadFloat(ctx, registerHumidity); err != nil {
			m.log.Error("humidity: %v", err)
		} else {
			r.HasHumidity = true
		}
	}
	return r, validate(r)
}
