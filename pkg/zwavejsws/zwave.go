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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paperdash/pkg/logger"

	"github.com/gorilla/websocket"
)

// ---------- Types ----------
// SEE: https://github.com/zwave-js/zwave-js-server#api

// Response from zwave-js
type Response struct {
	Type string `json:"type"`

	// version type, sent once after connecting
	ServerVersion string `json:"serverVersion,omitempty"`

	// result type
	MessageId string          `json:"messageId,omitempty"`
	Success   bool            `json:"success,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// Result from a "start_listening" command
type Result struct {
	State State `json:"state"`
}

type State struct {
	Controller struct {
		HomeID uint32 `json:"homeId"`
	} `json:"controller"`
	Nodes json.RawMessage `json:"nodes"`
}

// Node represents a zwave-js node
type Node struct {
	Name     string          `json:"name"`
	Location string          `json:"location"`
	NodeID   int             `json:"nodeId"`
	Ready    bool            `json:"ready"`
	Values   json.RawMessage `json:"values"`
}

// Value represents a parsed value from a node
type Value struct {
	CommandClass     int      `json:"commandClass"`
	CommandClassName string   `json:"commandClassName"`
	Endpoint         int      `json:"endpoint"`
	Metadata         Metadata `json:"metadata"`
	Property         any      `json:"property"`
	PropertyName     string   `json:"propertyName"`
	Value            any      `json:"value"`
}

// Metadata provides additional info about a Value
type Metadata struct {
	Label    string `json:"label,omitempty"`
	Readable bool   `json:"readable,omitempty"`
	Type     string `json:"type,omitempty"`
	Unit     string `json:"unit,omitempty"`

	CCSpecific struct {
		// multilevel sensors
		SensorType int     `json:"sensorType,omitempty"`
		Scale      float64 `json:"scale,omitempty"`
	} `json:"ccSpecific"`
}

var ErrStartListening = errors.New("zwave-js start_listening failed")

// Client reads the controller state from a zwave-js server.
type Client struct {
	url    string
	dialer websocket.Dialer
	log    *logger.Logger
}

// ---------- Public API ----------

func NewClient(url string) *Client {
	return &Client{
		url:    url,
		dialer: websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		log:    logger.New("ZWaveJS"),
	}
}

// ReadState connects, asks the server for its full state and disconnects.
func (c *Client) ReadState(ctx context.Context) (State, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return State{}, fmt.Errorf("zwave connect %s: %w", c.url, err)
	}
	defer conn.Close()

	// When the context is cancelled, close the websocket to unblock reads
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for _, cmd := range []map[string]any{
		{"messageId": "initialize", "command": "initialize", "schemaVersion": 1},
		{"messageId": "start_listening", "command": "start_listening"},
	} {
		if err := conn.WriteJSON(cmd); err != nil {
			return State{}, fmt.Errorf("zwave command %v: %w", cmd["command"], err)
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return State{}, ctx.Err()
			}
			return State{}, fmt.Errorf("zwave read: %w", err)
		}

		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return State{}, fmt.Errorf("unmarshal zwave-js message: %w", err)
		}

		switch {
		case resp.Type == "version":
			c.log.Debug("server version %s", resp.ServerVersion)
		case resp.Type == "result" && resp.MessageId == "start_listening":
			if !resp.Success {
				return State{}, fmt.Errorf("%w: %s", ErrStartListening, resp.ErrorCode)
			}
			var result Result
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return State{}, fmt.Errorf("unmarshal start_listening result: %w", err)
			}
			return result.State, nil
		case resp.Type == "result" && !resp.Success:
			c.log.Error("messageId '%s' failed: %s", resp.MessageId, resp.ErrorCode)
		}
	}
}
