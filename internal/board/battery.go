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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SysBattery reads a linux power_supply class device.
type SysBattery struct {
	dir string
}

func NewSysBattery(dir string) *SysBattery {
	return &SysBattery{dir: dir}
}

func (b *SysBattery) Capacity() (int, error) {
	raw, err := os.ReadFile(filepath.Join(b.dir, "capacity"))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("battery capacity %q: %w", raw, err)
	}
	return min(max(v, 0), 100), nil
}
