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

package modbus

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// ReadFloat reads a named register and returns its scaled value.
func (c *Client) ReadFloat(ctx context.Context, name string) (float64, error) {
	def, ok := c.config.Registers[name]
	if !ok {
		return 0, fmt.Errorf("register %q not configured", name)
	}

	n := registerCount(def.DataType)
	raw, err := c.ReadRegisters(ctx, def.Type, def.Address, n)
	if err != nil {
		return 0, fmt.Errorf("register read failed for %s: %w", name, err)
	}
	return Decode(def, raw)
}

// Decode converts the raw big endian register words of def into a float,
// applying scale and offset when a scale is set.
func Decode(def RegisterDef, raw []byte) (float64, error) {
	n := registerCount(def.DataType)
	if n == 0 {
		return 0, fmt.Errorf("unsupported data type %q", def.DataType)
	}
	if len(raw) < int(n*2) {
		return 0, fmt.Errorf("register at %d returned %d bytes, want %d", def.Address, len(raw), n*2)
	}

	var v float64
	switch def.DataType {
	case "uint16":
		v = float64(binary.BigEndian.Uint16(raw))
	case "int16":
		v = float64(int16(binary.BigEndian.Uint16(raw)))
	case "uint32":
		v = float64(binary.BigEndian.Uint32(raw))
	case "int32":
		v = float64(int32(binary.BigEndian.Uint32(raw)))
	case "float32":
		v = float64(math.Float32frombits(binary.BigEndian.Uint32(raw)))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("register at %d is not a number", def.Address)
		}
	case "bool":
		if binary.BigEndian.Uint16(raw) != 0 {
			return 1, nil
		}
		return 0, nil
	}

	if def.Scale != 0 {
		v = v*def.Scale + def.Offset
	}
	return v, nil
}

// registerCount is the number of 16 bit registers a data type spans,
// 0 for unknown types.
func registerCount(dt string) uint16 {
	switch dt {
	case "uint16", "int16", "bool":
		return 1
	case "uint32", "int32", "float32":
		return 2
	default:
		return 0
	}
}
