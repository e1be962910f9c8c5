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
	"encoding/json"
	"path/filepath"
	"testing"

	"paperdash/internal/config"
	"paperdash/pkg/zwavejsws"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsKind(t *testing.T) {
	c := &config.Config{RootDir: "/opt/paperdash"}
	c.Indoor.ModbusRegisters = "var/config/indoor.modbus.yml"

	c.Indoor.Kind = "none"
	assert.Nil(t, New(c))

	c.Indoor.Kind = "modbus"
	m, ok := New(c).(*Modbus)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/opt/paperdash", "var/config/indoor.modbus.yml"), m.registers)

	c.Indoor.Kind = "zwave"
	assert.IsType(t, &ZWave{}, New(c))

	c.Indoor.Kind = "host"
	assert.IsType(t, &Host{}, New(c))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validate(Reading{TemperatureC: 21.5, Humidity: 40, HasHumidity: true}))
	assert.Error(t, validate(Reading{TemperatureC: 85}))
	assert.Error(t, validate(Reading{TemperatureC: -41}))
	assert.Error(t, validate(Reading{TemperatureC: 20, Humidity: 120, HasHumidity: true}))
	assert.NoError(t, validate(Reading{TemperatureC: 20, Humidity: 120}))
}

func TestPickTemperature(t *testing.T) {
	stats := []host.TemperatureStat{
		{SensorKey: "acpitz", Temperature: 27.8},
		{SensorKey: "cpu_thermal_input", Temperature: 48.2},
	}
	v, err := pickTemperature(stats, "cpu_thermal")
	require.NoError(t, err)
	assert.Equal(t, 48.2, v)

	_, err = pickTemperature(stats, "gpu")
	assert.Error(t, err)
}

func node(t *testing.T, values string) zwavejsws.Node {
	var n zwavejsws.Node
	require.NoError(t, json.Unmarshal([]byte(`{"nodeId":4,"values":`+values+`}`), &n))
	return n
}

func TestFromNode(t *testing.T) {
	r, err := fromNode(node(t, `[
		{"commandClass":49,"value":71.6,"metadata":{"unit":"°F","ccSpecific":{"sensorType":1}}},
		{"commandClass":49,"value":48,"metadata":{"unit":"%","ccSpecific":{"sensorType":5}}}]`))
	require.NoError(t, err)
	assert.InDelta(t, 22, r.TemperatureC, 1e-9)
	assert.True(t, r.HasHumidity)
	assert.Equal(t, 48.0, r.Humidity)
	assert.Equal(t, "zwave", r.Source)

	r, err = fromNode(node(t, `[{"commandClass":49,"value":19.5,"metadata":{"unit":"°C","ccSpecific":{"sensorType":1}}}]`))
	require.NoError(t, err)
	assert.Equal(t, 19.5, r.TemperatureC)
	assert.False(t, r.HasHumidity)

	_, err = fromNode(node(t, `[]`))
	assert.Error(t, err)
}

func TestModbusMissingRegisterMap(t *testing.T) {
	_, err := NewModbus(filepath.Join(t.TempDir(), "missing.yml"), "").Read(context.Background())
	assert.Error(t, err)
}
