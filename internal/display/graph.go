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
	"math"
	"strconv"
)

type GraphMode int

const (
	LineGraph GraphMode = iota
	BarGraph
)

// Series is one sample set of a graph. Bars use Fill, lines are always black.
type Series struct {
	Values []float64
	Fill   Level
}

// Graph describes a small chart with a title, y labels at both extremes
// and a dashed zero line when the y domain straddles zero.
type Graph struct {
	X, Y, DX, DY int
	Title        string
	XMin, XMax   int
	YMin, YMax   int
	Mode         GraphMode
	Series       []Series

	// XLabel names sample i (0 based) in line mode, the index when nil.
	XLabel func(i int) string
}

type plotArea struct {
	x, y, dx, dy int
}

func (g *Graph) area() plotArea {
	tw := 5 + max(TextWidth(strconv.Itoa(g.YMin), 1), TextWidth(strconv.Itoa(g.YMax), 1))
	return plotArea{
		x:  g.X + 5 + tw + 5,
		y:  g.Y + 35,
		dx: g.DX - tw - 20,
		dy: g.DY - 35 - 20,
	}
}

// row maps a value to a pixel row, clamped into the plot area.
func (g *Graph) row(a plotArea, v float64) int {
	span := float64(g.YMax - g.YMin)
	if span <= 0 {
		span = 1
	}
	y := a.y + a.dy - int(math.Round((v-float64(g.YMin))*float64(a.dy)/span))
	return min(max(y, a.y), a.y+a.dy)
}

// col maps sample i (XMin based) to a pixel column.
func (g *Graph) col(a plotArea, i int) int {
	n := g.XMax - g.XMin
	if n <= 0 {
		return a.x
	}
	return a.x + a.dx*(i-g.XMin)/n
}

func (c *Canvas) DrawGraph(g Graph) {
	a := g.area()

	c.TextCentered(g.X+g.DX/2, g.Y+10, g.Title, 1, Black)
	c.Text(g.X+5, a.y-5, strconv.Itoa(g.YMax), 1, Black)
	c.Text(g.X+5, a.y+a.dy-TextHeight(1)+3, strconv.Itoa(g.YMin), 1, Black)

	if g.Mode == LineGraph {
		for i := 0; i <= g.XMax-g.XMin; i++ {
			label := strconv.Itoa(i)
			if g.XLabel != nil {
				label = g.XLabel(i)
			}
			c.TextCentered(g.col(a, g.XMin+i), a.y+a.dy+5, label, 1, Black)
		}
	}

	c.Rect(a.x, a.y, a.dx, a.dy, Black)

	if g.YMin < 0 && g.YMax > 0 {
		zero := g.row(a, 0)
		c.TextRight(a.x-4, zero-TextHeight(1)/2, "0", 1, Black)
		c.DashedHLine(a.x, a.x+a.dx-10, zero, 5, 10, Black)
	}

	switch g.Mode {
	case LineGraph:
		for _, s := range g.Series {
			c.plotLine(&g, a, s)
		}
	case BarGraph:
		c.plotBars(&g, a)
	}
}

func (c *Canvas) plotLine(g *Graph, a plotArea, s Series) {
	var px, py int
	for i := g.XMin; i <= g.XMax; i++ {
		k := i - g.XMin
		if k >= len(s.Values) {
			return
		}
		x, y := g.col(a, i), g.row(a, s.Values[k])
		c.FillCircle(x, y, 2, Black)
		if i > g.XMin {
			c.Line(px, py, x, y, Black)
		}
		px, py = x, y
	}
}

// plotBars draws one bar per sample centred on its column, split between
// the series. The first and last bar only get the half inside the domain.
func (c *Canvas) plotBars(g *Graph, a plotArea) {
	n := g.XMax - g.XMin
	if n <= 0 || len(g.Series) == 0 {
		return
	}
	slot := a.dx / n
	base := g.row(a, math.Max(0, float64(g.YMin)))

	for i := g.XMin; i <= g.XMax; i++ {
		left, right := g.col(a, i)-slot/2, g.col(a, i)+slot/2
		if i == g.XMin {
			left = g.col(a, i)
		}
		if i == g.XMax {
			right = g.col(a, i)
		}
		left, right = left+1, right-1
		if right <= left {
			continue
		}

		w := (right - left) / len(g.Series)
		for si, s := range g.Series {
			k := i - g.XMin
			if k >= len(s.Values) || s.Values[k] <= 0 {
				continue
			}
			top := g.row(a, s.Values[k])
			x0 := left + si*w
			h := base - top
			if h <= 0 {
				continue
			}
			c.FillRect(x0, top, w, h, s.Fill)
			c.Rect(x0, top, w, h, Black)
		}
	}
}
