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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Modbus    ModbusConfig           `yaml:"modbus"`
	Registers map[string]RegisterDef `yaml:"registers"`
}

type ModbusConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	SlaveID byte   `yaml:"slave_id"`
	Timeout int    `yaml:"timeout"` // seconds
}

type RegisterDef struct {
	Address     uint16  `yaml:"address"`
	Type        string  `yaml:"type"`      // "holding" or "input"
	DataType    string  `yaml:"data_type"` // "uint16", "int16", "uint32", "int32", "float32", "bool"
	Scale       float64 `yaml:"scale"`     // when set, value = raw*scale + offset
	Offset      float64 `yaml:"offset"`
	Description string  `yaml:"description"`
}

// LoadConfig reads a yaml register map.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read register map: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a register map and fills connection defaults.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse register map: %w", err)
	}

	if config.Modbus.Port == 0 {
		config.Modbus.Port = 502
	}
	if config.Modbus.Timeout == 0 {
		config.Modbus.Timeout = 3
	}
	if config.Modbus.SlaveID == 0 {
		config.Modbus.SlaveID = 1
	}

	for name, def := range config.Registers {
		if def.Type == "" {
			def.Type = "holding"
			config.Registers[name] = def
		}
		if def.Type != "holding" && def.Type != "input" {
			return nil, fmt.Errorf("register %q: unsupported type %q", name, def.Type)
		}
		if registerCount(def.DataType) == 0 {
			return nil, fmt.Errorf("register %q: unsupported data type %q", name, def.DataType)
		}
	}
	return &config, nil
}
