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
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Level is one of the 16 grey levels of the panel, 0 white paper to 15 black ink.
type Level uint8

const (
	White Level = 0
	Light Level = 4
	Mid   Level = 8
	Black Level = 15
)

func (l Level) Gray() color.Gray {
	if l > Black {
		l = Black
	}
	return color.Gray{Y: 255 - uint8(l)*17}
}

var face = basicfont.Face7x13

// Canvas is an 8-bit grey framebuffer with the drawing primitives the
// dashboard needs. Every primitive clips to the canvas.
type Canvas struct {
	img *image.Gray
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{img: image.NewGray(image.Rect(0, 0, w, h))}
	c.Clear()
	return c
}

func (c *Canvas) Image() *image.Gray { return c.img }
func (c *Canvas) Width() int         { return c.img.Rect.Dx() }
func (c *Canvas) Height() int        { return c.img.Rect.Dy() }

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{White.Gray()}, image.Point{}, draw.Src)
}

func (c *Canvas) Pixel(x, y int, l Level) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.SetGray(x, y, l.Gray())
	}
}

func (c *Canvas) Line(x0, y0, x1, y1 int, l Level) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.Pixel(x0, y0, l)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DashedHLine draws dash long strokes every period pixels from x0 to x1.
func (c *Canvas) DashedHLine(x0, x1, y, dash, period int, l Level) {
	for x := x0; x <= x1; x += period {
		c.Line(x, y, min(x+dash-1, x1), y, l)
	}
}

// Rect outlines the w x h rectangle with its top left corner at x,y.
func (c *Canvas) Rect(x, y, w, h int, l Level) {
	if w <= 0 || h <= 0 {
		return
	}
	c.Line(x, y, x+w-1, y, l)
	c.Line(x, y+h-1, x+w-1, y+h-1, l)
	c.Line(x, y, x, y+h-1, l)
	c.Line(x+w-1, y, x+w-1, y+h-1, l)
}

func (c *Canvas) FillRect(x, y, w, h int, l Level) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, &image.Uniform{l.Gray()}, image.Point{}, draw.Src)
}

func (c *Canvas) Circle(cx, cy, r int, l Level) {
	c.ring(cx, cy, r, r-1, l)
}

func (c *Canvas) FillCircle(cx, cy, r int, l Level) {
	c.ring(cx, cy, r, -1, l)
}

func (c *Canvas) ring(cx, cy, outer, inner int, l Level) {
	for y := -outer; y <= outer; y++ {
		for x := -outer; x <= outer; x++ {
			d := x*x + y*y
			if d <= outer*outer && (inner < 0 || d >= inner*inner) {
				c.Pixel(cx+x, cy+y, l)
			}
		}
	}
}

// Arc fills the ring between inner and outer radius for angles from start
// to end degrees. 0 points right and angles grow clockwise, so 270 is up.
func (c *Canvas) Arc(cx, cy, outer, inner int, start, end float64, l Level) {
	for y := -outer; y <= outer; y++ {
		for x := -outer; x <= outer; x++ {
			d := x*x + y*y
			if d > outer*outer || d < inner*inner {
				continue
			}
			a := math.Atan2(float64(y), float64(x)) * 180 / math.Pi
			if a < 0 {
				a += 360
			}
			if (a >= start && a <= end) || (a+360 >= start && a+360 <= end) {
				c.Pixel(cx+x, cy+y, l)
			}
		}
	}
}

// polar returns the point r pixels from cx,cy in the direction deg, using
// the same angle convention as Arc.
func polar(cx, cy int, r, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	return cx + int(math.Round(r*math.Cos(rad))), cy + int(math.Round(r*math.Sin(rad)))
}

// Text draws s with its top left corner at x,y, scaled by an integer size.
func (c *Canvas) Text(x, y int, s string, size int, l Level) {
	s = fold(s)
	if s == "" {
		return
	}
	size = max(size, 1)

	w := font.MeasureString(face, s).Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, w, face.Height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	for my := 0; my < face.Height; my++ {
		for mx := 0; mx < w; mx++ {
			if mask.AlphaAt(mx, my).A > 0x7f {
				c.FillRect(x+mx*size, y+my*size, size, size, l)
			}
		}
	}
}

// TextCentered centres s horizontally on cx.
func (c *Canvas) TextCentered(cx, y int, s string, size int, l Level) {
	c.Text(cx-TextWidth(s, size)/2, y, s, size, l)
}

// TextRight ends s at rx.
func (c *Canvas) TextRight(rx, y int, s string, size int, l Level) {
	c.Text(rx-TextWidth(s, size), y, s, size, l)
}

func TextWidth(s string, size int) int {
	return font.MeasureString(face, fold(s)).Ceil() * max(size, 1)
}

func TextHeight(size int) int {
	return face.Height * max(size, 1)
}

// Paste copies src into the canvas with its origin at at.
func (c *Canvas) Paste(src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(c.img, r, src, src.Bounds().Min, draw.Src)
}

var folder = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss",
	"é", "e", "è", "e", "á", "a", "à", "a", "ó", "o", "ñ", "n", "ç", "c", "°", "",
)

// fold maps text onto the ASCII range the bitmap font covers.
func fold(s string) string {
	s = folder.Replace(s)
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return strings.Map(func(r rune) rune {
				if r < 0x20 || r > 0x7e {
					return '?'
				}
				return r
			}, s)
		}
	}
	return s
}

// wrap breaks s into lines of at most width pixels at the given size.
func wrap(s string, width, size int) []string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(fold(s)) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if TextWidth(next, size) <= width || cur == "" {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
