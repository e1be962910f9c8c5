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

package publish

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSnapshot(t *testing.T) {
	snap := snapshot.New(1)
	snap.CycleID = "c1"
	snap.IndoorTemp = 21.5
	snap.Sources["weather"] = false
	at := time.Date(2024, 3, 9, 14, 5, 0, 0, time.FixedZone("", 3600))

	m := FromSnapshot(snap, at)
	assert.Equal(t, "c1", m.CycleID)
	assert.Equal(t, time.UTC, m.Timestamp.Location())
	assert.Nil(t, m.OutdoorTemp)

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "outdoor_temperature_c")
	assert.Contains(t, string(raw), `"indoor_temperature_c":21.5`)

	snap.Weather.Success = true
	snap.Weather.Temp = 4.5
	snap.Weather.HourlyRain[0] = 0.3
	m = FromSnapshot(snap, at)
	require.NotNil(t, m.OutdoorTemp)
	assert.Equal(t, 4.5, *m.OutdoorTemp)
	assert.Equal(t, 0.3, *m.RainNextHour)
}

func TestPublishUnreachableBroker(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	m := NewMQTT(config.MQTTConfig{Broker: "tcp://" + addr, ClientID: "test", Topic: "paperdash/test"})
	assert.Equal(t, "mqtt", m.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, m.Publish(ctx, snapshot.New(1)))
}

// A broker that answers CONNACK only after Publish gave up must still see
// the connection closed.
func TestPublishConnectTimeoutReleasesConnection(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	release := make(chan struct{})
	closed := make(chan struct{})
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 256)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		<-release
		if _, err := conn.Write([]byte{0x20, 0x02, 0x00, 0x00}); err != nil {
			close(closed)
			return
		}
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		for {
			if _, err := conn.Read(buf); err != nil {
				if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
					close(closed)
				}
				return
			}
		}
	}()

	m := NewMQTT(config.MQTTConfig{Broker: "tcp://" + l.Addr().String(), ClientID: "test", Topic: "paperdash/test"})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err = m.Publish(ctx, snapshot.New(1))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("connection still open after a failed publish")
	}
}
