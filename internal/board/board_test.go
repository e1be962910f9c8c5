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

package board

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"paperdash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wireless = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
 wlan0: 0000   54.  -56.  -256        0      0      0      0     0        0
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadRSSI(t *testing.T) {
	p := filepath.Join(t.TempDir(), "wireless")
	write(t, p, wireless)

	rssi, err := readRSSI(p, "wlan0")
	require.NoError(t, err)
	assert.Equal(t, -56, rssi)

	_, err = readRSSI(p, "wlan1")
	assert.Error(t, err)
}

func hostNetwork(t *testing.T, timeout time.Duration) (*HostNetwork, string) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "wireless"), wireless)
	n := NewHostNetwork("wlan0", filepath.Join(dir, "wireless"), timeout)
	n.sysNet = filepath.Join(dir, "net")
	n.poll = 10 * time.Millisecond
	return n, filepath.Join(n.sysNet, "wlan0", "operstate")
}

func TestHostNetworkUp(t *testing.T) {
	n, operstate := hostNetwork(t, time.Second)
	write(t, operstate, "up\n")

	require.NoError(t, n.Up(context.Background()))
	assert.Equal(t, -56, n.RSSI())
	assert.NoError(t, n.Down(context.Background()))
}

func TestHostNetworkTimesOut(t *testing.T) {
	n, operstate := hostNetwork(t, 50*time.Millisecond)
	write(t, operstate, "down\n")

	err := n.Up(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, n.RSSI())
}

func TestBatteryCapacity(t *testing.T) {
	dir := t.TempDir()
	b := NewSysBattery(dir)

	_, err := b.Capacity()
	assert.Error(t, err)

	write(t, filepath.Join(dir, "capacity"), "87\n")
	v, err := b.Capacity()
	require.NoError(t, err)
	assert.Equal(t, 87, v)

	write(t, filepath.Join(dir, "capacity"), "104\n")
	v, _ = b.Capacity()
	assert.Equal(t, 100, v)
}

func TestSoftClock(t *testing.T) {
	host := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(false)
	c.now = func() time.Time { return host }

	// 2024-03-09 14:05:00 local at UTC+1
	local := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC).Unix()
	require.NoError(t, c.Set(local, 3600))

	now := c.Now()
	assert.Equal(t, "2024-03-09 14:05:00", now.Format(time.DateTime))
	_, off := now.Zone()
	assert.Equal(t, 3600, off)
	assert.Equal(t, local-3600, now.Unix())

	host = host.Add(time.Minute)
	assert.Equal(t, "14:06", c.Now().Format("15:04"))
}

func TestPowerExitReturnsImmediately(t *testing.T) {
	p := NewPower("exit")
	p.exec = func() error { t.Fatal("exec in exit mode"); return nil }
	assert.NoError(t, p.Down(context.Background(), time.Hour))
}

func TestPowerReexec(t *testing.T) {
	errReset := errors.New("reset")
	p := NewPower("reexec")
	p.exec = func() error { return errReset }

	assert.ErrorIs(t, p.Down(context.Background(), 10*time.Millisecond), errReset)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Down(ctx, time.Hour), context.Canceled)
}

func TestNewBoard(t *testing.T) {
	c := &config.Config{}
	c.Board.Network = "none"
	c.Board.Clock = "soft"
	c.Power.Mode = "exit"

	b := New(c)
	assert.IsType(t, NoNetwork{}, b.Network)
	assert.NoError(t, b.Network.Up(context.Background()))

	c.Board.Network = "host"
	assert.IsType(t, &HostNetwork{}, New(c).Network)
}
