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
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"paperdash/pkg/logger"
)

// HostNetwork follows a linux interface brought up by the system's own
// network stack and reports its signal level from /proc/net/wireless.
type HostNetwork struct {
	iface    string
	wireless string
	sysNet   string
	timeout  time.Duration
	poll     time.Duration
	rssi     int
	log      *logger.Logger
}

func NewHostNetwork(iface, wireless string, timeout time.Duration) *HostNetwork {
	return &HostNetwork{
		iface:    iface,
		wireless: wireless,
		sysNet:   "/sys/class/net",
		timeout:  timeout,
		poll:     500 * time.Millisecond,
		log:      logger.New("Network"),
	}
}

func (n *HostNetwork) Up(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	tick := time.NewTicker(n.poll)
	defer tick.Stop()

	for {
		if n.operUp() {
			if rssi, err := readRSSI(n.wireless, n.iface); err != nil {
				n.log.Debug("rssi: %v", err)
			} else {
				n.rssi = rssi
			}
			n.log.Info("%s up, rssi %d dBm", n.iface, n.rssi)
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not up: %w", n.iface, ctx.Err())
		case <-tick.C:
		}
	}
}

// Down leaves the interface to the system, which powers the radio off with the board.
func (n *HostNetwork) Down(ctx context.Context) error {
	n.log.Debug("%s released", n.iface)
	return nil
}

func (n *HostNetwork) RSSI() int { return n.rssi }

func (n *HostNetwork) operUp() bool {
	b, err := os.ReadFile(filepath.Join(n.sysNet, n.iface, "operstate"))
	return err == nil && strings.TrimSpace(string(b)) == "up"
}

// readRSSI parses the signal level column of /proc/net/wireless.
func readRSSI(path, iface string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != iface+":" {
			continue
		}
		level, err := strconv.ParseFloat(strings.TrimSuffix(fields[3], "."), 64)
		if err != nil {
			return 0, fmt.Errorf("signal level %q: %w", fields[3], err)
		}
		return int(level), nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s not listed in %s", iface, path)
}

// NoNetwork is used where connectivity is always present.
type NoNetwork struct{}

func (NoNetwork) Up(context.Context) error   { return nil }
func (NoNetwork) Down(context.Context) error { return nil }
func (NoNetwork) RSSI() int                  { return 0 }
