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

	"paperdash/pkg/zwavejsws"
)

// ZWave reads a multilevel sensor node through a zwave-js server.
type ZWave struct {
	client *zwavejsws.Client
	nodeID int
}

func NewZWave(url string, nodeID int) *ZWave {
	return &ZWave{
		client: zwavejsws.NewClient(url),
		nodeID: nodeID,
	}
}

func (z *ZWave) Read(ctx context.Context) (Reading, error) {
	state, err := z.client.ReadState(ctx)
	if err != nil {
		return Reading{}, err
	}
	node, err := state.FindNode(z.nodeID)
	if err != nil {
		return Reading{}, err
	}
	return fromNode(node)
}

func fromNode(node zwavejsws.Node) (Reading, error) {
	r := Reading{Source: "zwave"}

	temp, unit, ok := node.Multilevel(zwavejsws.SensorAirTemperature)
	if !ok {
		return Reading{}, fmt.Errorf("zwave node %d reports no air temperature", node.NodeID)
	}
	if strings.HasSuffix(unit, "F") {
		temp = fahrenheitToCelsius(temp)
	}
	r.TemperatureC = temp

	r.Humidity, _, r.HasHumidity = node.Multilevel(zwavejsws.SensorHumidity)
	return r, validate(r)
}
