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

// Icons are drawn procedurally into a square box so they scale with the
// layout. Coordinates are fractions of the box size s.

type iconFunc func(c *Canvas, x, y, s int)

const (
	iconUnknown = iota
	iconClearDay
	iconClearNight
	iconFewCloudsDay
	iconFewCloudsNight
	iconClouds
	iconBrokenClouds
	iconShowers
	iconRainDay
	iconRainNight
	iconThunder
	iconSnow
	iconMist
)

var iconDrawers = []iconFunc{
	iconUnknown:        drawUnknown,
	iconClearDay:       drawSun,
	iconClearNight:     drawMoon,
	iconFewCloudsDay:   drawFewCloudsDay,
	iconFewCloudsNight: drawFewCloudsNight,
	iconClouds:         drawCloud,
	iconBrokenClouds:   drawBrokenClouds,
	iconShowers:        drawShowers,
	iconRainDay:        drawRainDay,
	iconRainNight:      drawRainNight,
	iconThunder:        drawThunder,
	iconSnow:           drawSnow,
	iconMist:           drawMist,
}

// iconTable maps OpenWeatherMap icon codes to drawers.
var iconTable = map[string]int{
	"01d": iconClearDay,
	"01n": iconClearNight,
	"02d": iconFewCloudsDay,
	"02n": iconFewCloudsNight,
	"03d": iconClouds,
	"03n": iconClouds,
	"04d": iconBrokenClouds,
	"04n": iconBrokenClouds,
	"09d": iconShowers,
	"09n": iconShowers,
	"10d": iconRainDay,
	"10n": iconRainNight,
	"11d": iconThunder,
	"11n": iconThunder,
	"13d": iconSnow,
	"13n": iconSnow,
	"50d": iconMist,
	"50n": iconMist,
}

// iconIndex returns the drawer index for code, iconUnknown for anything not in the table.
func iconIndex(code string) int {
	if i, ok := iconTable[code]; ok {
		return i
	}
	return iconUnknown
}

// DrawIcon draws the weather icon for code in the s x s box at x,y.
func (c *Canvas) DrawIcon(x, y, s int, code string) {
	iconDrawers[iconIndex(code)](c, x, y, s)
}

func at(x, s int, f float64) int { return x + int(f*float64(s)) }

func drawUnknown(c *Canvas, x, y, s int) {
	c.Rect(at(x, s, .15), at(y, s, .15), s*7/10, s*7/10, Black)
	size := max(1, s/32)
	c.TextCentered(at(x, s, .5), at(y, s, .5)-TextHeight(size)/2, "?", size, Black)
}

func sunAt(c *Canvas, cx, cy, r int) {
	c.FillCircle(cx, cy, r, Black)
	c.FillCircle(cx, cy, r-max(2, r/6), White)
	for i := 0; i < 8; i++ {
		a := float64(i) * 45
		x0, y0 := polar(cx, cy, float64(r)*1.35, a)
		x1, y1 := polar(cx, cy, float64(r)*1.8, a)
		c.Line(x0, y0, x1, y1, Black)
		c.Line(x0+1, y0, x1+1, y1, Black)
	}
}

func moonAt(c *Canvas, cx, cy, r int) {
	c.FillCircle(cx, cy, r, Black)
	c.FillCircle(cx+r/2, cy-r/3, r, White)
}

// cloudAt draws a cloud whose bounding box is w wide with its top left at x,y.
func cloudAt(c *Canvas, x, y, w int, fill Level) {
	h := w / 2
	r1, r2, r3 := h*2/5, h/2, h*7/20
	base := y + h - 1

	body := func(l Level, grow int) {
		c.FillCircle(x+r1, base-r1, r1+grow, l)
		c.FillCircle(x+w*9/20, base-r2*6/5, r2+grow, l)
		c.FillCircle(x+w-r3, base-r3, r3+grow, l)
		c.FillRect(x+r1, base-r1-grow, w-r1-r3, r1+grow+1, l)
	}
	body(Black, 0)
	body(fill, -2)
}

func drawSun(c *Canvas, x, y, s int) {
	sunAt(c, at(x, s, .5), at(y, s, .5), s/5)
}

func drawMoon(c *Canvas, x, y, s int) {
	moonAt(c, at(x, s, .5), at(y, s, .5), s/4)
}

func drawFewCloudsDay(c *Canvas, x, y, s int) {
	sunAt(c, at(x, s, .38), at(y, s, .35), s/7)
	cloudAt(c, at(x, s, .3), at(y, s, .4), s*3/5, White)
}

func drawFewCloudsNight(c *Canvas, x, y, s int) {
	moonAt(c, at(x, s, .38), at(y, s, .35), s/6)
	cloudAt(c, at(x, s, .3), at(y, s, .4), s*3/5, White)
}

func drawCloud(c *Canvas, x, y, s int) {
	cloudAt(c, at(x, s, .1), at(y, s, .25), s*4/5, White)
}

func drawBrokenClouds(c *Canvas, x, y, s int) {
	cloudAt(c, at(x, s, .3), at(y, s, .12), s*3/5, Light)
	cloudAt(c, at(x, s, .05), at(y, s, .32), s*4/5, White)
}

func drops(c *Canvas, x, y, s int) {
	for i, fx := range []float64{.25, .45, .65} {
		x0 := at(x, s, fx)
		y0 := at(y, s, .72) + (i%2)*s/16
		c.Line(x0, y0, x0-s/16, y0+s/8, Black)
		c.Line(x0+1, y0, x0-s/16+1, y0+s/8, Black)
	}
}

func drawShowers(c *Canvas, x, y, s int) {
	cloudAt(c, at(x, s, .1), at(y, s, .2), s*4/5, Light)
	drops(c, x, y, s)
}

func drawRainDay(c *Canvas, x, y, s int) {
	sunAt(c, at(x, s, .35), at(y, s, .3), s/8)
	cloudAt(c, at(x, s, .25), at(y, s, .3), s*3/5, White)
	drops(c, x+s/10, y, s)
}

func drawRainNight(c *Canvas, x, y, s int) {
	moonAt(c, at(x, s, .35), at(y, s, .3), s/7)
	cloudAt(c, at(x, s, .25), at(y, s, .3), s*3/5, White)
	drops(c, x+s/10, y, s)
}

func drawThunder(c *Canvas, x, y, s int) {
	cloudAt(c, at(x, s, .1), at(y, s, .15), s*4/5, Mid)
	bolt := [][2]float64{{.55, .55}, {.42, .75}, {.54, .75}, {.44, .95}}
	for i := 0; i+1 < len(bolt); i++ {
		x0, y0 := at(x, s, bolt[i][0]), at(y, s, bolt[i][1])
		x1, y1 := at(x, s, bolt[i+1][0]), at(y, s, bolt[i+1][1])
		c.Line(x0, y0, x1, y1, Black)
		c.Line(x0+1, y0, x1+1, y1, Black)
	}
}

func drawSnow(c *Canvas, x, y, s int) {
	cloudAt(c, at(x, s, .1), at(y, s, .15), s*4/5, White)
	r := max(3, s/14)
	for _, p := range [][2]float64{{.28, .78}, {.5, .86}, {.72, .78}} {
		cx, cy := at(x, s, p[0]), at(y, s, p[1])
		for a := 0.0; a < 180; a += 60 {
			x0, y0 := polar(cx, cy, float64(r), a)
			x1, y1 := polar(cx, cy, float64(r), a+180)
			c.Line(x0, y0, x1, y1, Black)
		}
	}
}

func drawMist(c *Canvas, x, y, s int) {
	for i := 0; i < 4; i++ {
		yy := at(y, s, .3) + i*s/8
		x0 := at(x, s, .15) + (i%2)*s/10
		c.FillRect(x0, yy, s*6/10, max(2, s/24), Black)
	}
}

// small status icons

func (c *Canvas) SunriseIcon(x, y, s int) {
	horizonIcon(c, x, y, s, true)
}

func (c *Canvas) SunsetIcon(x, y, s int) {
	horizonIcon(c, x, y, s, false)
}

func horizonIcon(c *Canvas, x, y, s int, rising bool) {
	cx, cy, r := at(x, s, .5), at(y, s, .7), s/4
	c.Arc(cx, cy, r, r-2, 180, 360, Black)
	for _, a := range []float64{200, 240, 270, 300, 340} {
		x0, y0 := polar(cx, cy, float64(r)+3, a)
		x1, y1 := polar(cx, cy, float64(r+s/8), a)
		c.Line(x0, y0, x1, y1, Black)
	}
	c.FillRect(x, cy+1, s, 2, Black)

	// arrow up for sunrise, down for sunset
	ax, top, bottom := cx, at(y, s, .78), at(y, s, .98)
	c.Line(ax, top, ax, bottom, Black)
	tip, dir := top, 1
	if !rising {
		tip, dir = bottom, -1
	}
	c.Line(ax, tip, ax-s/10, tip+dir*s/10, Black)
	c.Line(ax, tip, ax+s/10, tip+dir*s/10, Black)
}

func (c *Canvas) ThermometerIcon(x, y, s int) {
	cx := at(x, s, .5)
	w := max(4, s/6)
	c.Rect(cx-w/2, at(y, s, .08), w, s*6/10, Black)
	c.FillCircle(cx, at(y, s, .78), s/6, Black)
	c.FillRect(cx-w/2+2, at(y, s, .4), w-4, s*4/10, Black)
}

func (c *Canvas) HumidityIcon(x, y, s int) {
	cx, cy, r := at(x, s, .5), at(y, s, .65), s/4
	c.FillCircle(cx, cy, r, Black)
	for i := 0; i <= r*3/2; i++ {
		half := r * i / (r * 3 / 2)
		yy := cy - r*3/2 + i
		c.Line(cx-half, yy, cx+half, yy, Black)
	}
	c.FillCircle(cx-r/3, cy, max(1, r/4), White)
}

func (c *Canvas) WindIcon(x, y, s int) {
	for i, f := range []float64{.3, .5, .7} {
		yy := at(y, s, f)
		x1 := at(x, s, .9) - (i%2)*s/5
		c.FillRect(at(x, s, .1), yy, x1-at(x, s, .1), 2, Black)
		c.Arc(x1, yy-s/12+1, s/12, s/12-2, 180, 450, Black)
	}
}
