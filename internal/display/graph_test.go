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

package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tempGraph(values ...float64) Graph {
	return Graph{
		X: 15, Y: 408, DX: 225, DY: 122,
		Title: "Temp. (C)",
		XMin:  0, XMax: len(values) - 1,
		YMin:  -10, YMax: 30,
		Mode:   LineGraph,
		Series: []Series{{Values: values}},
	}
}

func TestRowClampsOutOfRange(t *testing.T) {
	g := tempGraph(0, 0)
	a := g.area()

	assert.Equal(t, g.row(a, 30), g.row(a, 45))
	assert.Equal(t, a.y, g.row(a, 45))
	assert.Equal(t, a.y+a.dy, g.row(a, -25))
	assert.Greater(t, g.row(a, 0), a.y)
	assert.Less(t, g.row(a, 0), a.y+a.dy)
}

func TestOutOfRangeSampleStaysInPlot(t *testing.T) {
	c := NewCanvas(width, height)
	g := tempGraph(45, 45, 45)
	c.DrawGraph(g)

	a := g.area()
	// nothing is drawn between the y label column and the panel above the plot rect
	above := image.Rect(a.x+3, g.Y+24, a.x+a.dx-3, a.y-2)
	assert.Zero(t, darkPixels(c.Image(), above))
}

func TestZeroLineOnlyWhenStraddling(t *testing.T) {
	c := NewCanvas(width, height)
	g := tempGraph(0, 0, 0)
	g.Series = nil
	c.DrawGraph(g)
	a := g.area()
	zero := g.row(a, 0)
	assert.Greater(t, darkPixels(c.Image(), image.Rect(a.x+1, zero, a.x+a.dx-1, zero+1)), 0)

	c = NewCanvas(width, height)
	g.YMin = 0
	c.DrawGraph(g)
	a = g.area()
	mid := a.y + a.dy/2
	assert.Zero(t, darkPixels(c.Image(), image.Rect(a.x+1, mid, a.x+a.dx-1, mid+1)))
}

func TestBarsHalfWidthAtEdges(t *testing.T) {
	c := NewCanvas(width, height)
	g := Graph{
		X: 240, Y: 408, DX: 225, DY: 122,
		XMin: 0, XMax: 2,
		YMin: 0, YMax: 4,
		Mode:   BarGraph,
		Series: []Series{{Values: []float64{4, 4, 4}, Fill: Black}},
	}
	c.DrawGraph(g)

	a := g.area()
	row := a.y + a.dy/2
	slot := a.dx / 2
	// the first bar starts on its column and does not reach left of the plot
	assert.Greater(t, c.Image().GrayAt(a.x-2, row).Y, uint8(0x80))
	assert.Less(t, c.Image().GrayAt(a.x+slot/4, row).Y, uint8(0x80))
	assert.Less(t, c.Image().GrayAt(g.col(a, 1), row).Y, uint8(0x80))
}
