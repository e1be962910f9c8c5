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

package zwavejsws

import (
	"encoding/json"
	"fmt"
)

// CCMultilevelSensor is the Multilevel Sensor command class.
const CCMultilevelSensor = 49

// Multilevel sensor types.
const (
	SensorAirTemperature = 1
	SensorHumidity       = 5
)

func (s State) ParseNodes() ([]Node, error) {
	var nodes []Node
	if err := json.Unmarshal(s.Nodes, &nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zwave-js nodes: %v", err)
	}
	return nodes, nil
}

// FindNode returns the node with the given id.
func (s State) FindNode(nodeID int) (Node, error) {
	nodes, err := s.ParseNodes()
	if err != nil {
		return Node{}, err
	}
	for _, n := range nodes {
		if n.NodeID == nodeID {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("zwave node %d not found", nodeID)
}

func (n Node) ParseValues() ([]Value, error) {
	var values []Value
	if err := json.Unmarshal(n.Values, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zwave-js node values: %v", err)
	}
	return values, nil
}

// Multilevel returns the reading and unit of a multilevel sensor type.
func (n Node) Multilevel(sensorType int) (float64, string, bool) {
	values, err := n.ParseValues()
	if err != nil {
		return 0, "", false
	}
	for _, v := range values {
		if v.CommandClass != CCMultilevelSensor || v.Metadata.CCSpecific.SensorType != sensorType {
			continue
		}
		f, ok := v.Value.(float64)
		if !ok {
			continue
		}
		return f, v.Metadata.Unit, true
	}
	return 0, "", false
}
