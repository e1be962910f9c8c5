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

// Package display draws the dashboard onto a canvas and pushes it to a panel.
package display

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"time"

	"paperdash/internal/config"
	"paperdash/internal/panel"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
)

// Clock is the real time clock shown in the status quadrant.
type Clock interface {
	Now() time.Time
}

type Options struct {
	Language   string
	Location   string
	AuxPanels  []string
	GraphHours int
	Settle     time.Duration
}

func OptionsFrom(appConf *config.Config) Options {
	return Options{
		Language:   appConf.Display.Language,
		Location:   appConf.Location.Name,
		AuxPanels:  appConf.Display.AuxPanels,
		GraphHours: appConf.Display.GraphHours,
		Settle:     time.Duration(appConf.Display.SettleMillis) * time.Millisecond,
	}
}

type WeatherDisplay struct {
	log    *logger.Logger
	panel  panel.Panel
	clock  Clock
	opts   Options
	labels labels
	canvas *Canvas
}

func New(p panel.Panel, clock Clock, opts Options) *WeatherDisplay {
	if opts.GraphHours < 2 {
		opts.GraphHours = 6
	}
	opts.GraphHours = min(opts.GraphHours, snapshot.HourlyCount)
	return &WeatherDisplay{
		log:    logger.New("Display"),
		panel:  p,
		clock:  clock,
		opts:   opts,
		labels: labelsFor(opts.Language),
	}
}

// Show redraws the whole dashboard, pushes it with a full refresh and waits
// for the panel to settle.
func (d *WeatherDisplay) Show(ctx context.Context, snap *snapshot.Snapshot) error {
	d.log.Info("show")
	img := d.Render(snap)
	if err := d.panel.Push(ctx, img, image.Point{}, panel.ModeGC16); err != nil {
		return fmt.Errorf("push frame: %w", err)
	}
	return d.settle(ctx)
}

// ShowStatusInfo redraws only the status quadrant in place.
func (d *WeatherDisplay) ShowStatusInfo(ctx context.Context, snap *snapshot.Snapshot) error {
	d.log.Info("show status")
	d.canvas = NewCanvas(statusW, quadH)
	d.canvas.Rect(0, 0, statusW, quadH, Black)
	d.drawStatus(snap, 0, 0, statusW, quadH)

	if err := d.panel.Push(ctx, d.canvas.Image(), image.Pt(statusX, topY), panel.ModeGL16); err != nil {
		return fmt.Errorf("push status: %w", err)
	}
	return d.settle(ctx)
}

func (d *WeatherDisplay) settle(ctx context.Context) error {
	if d.opts.Settle <= 0 {
		return nil
	}
	select {
	case <-time.After(d.opts.Settle):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fixed layout of the 960x540 panel
const (
	width  = panel.Width
	height = panel.Height

	topY    = 35
	quadH   = 251
	dailyY  = topY + quadH // 286
	stripH  = 122
	bottomY = dailyY + stripH // 408

	sunX, sunW         = 15, 217
	outdoorX, outdoorW = 232, 233
	indoorX, indoorW   = 465, 232
	statusX, statusW   = 697, 245

	dailyCellW = 186
	auxW       = 240
)

// Render draws the full dashboard and returns the canvas image.
func (d *WeatherDisplay) Render(snap *snapshot.Snapshot) *image.Gray {
	d.canvas = NewCanvas(width, height)
	c := d.canvas

	d.drawHead(snap)

	c.Rect(14, 34, width-28, height-43, Black)

	c.Rect(15, topY, width-30, quadH, Black)
	for _, x := range []int{outdoorX, indoorX, statusX} {
		c.Line(x, topY, x, dailyY, Black)
	}
	d.drawSun(snap, sunX, topY, sunW, quadH)
	d.drawOutdoor(snap, outdoorX, topY, outdoorW, quadH)
	d.drawIndoor(snap, indoorX, topY, indoorW, quadH)
	d.drawStatus(snap, statusX, topY, statusW, quadH)

	c.Rect(15, dailyY, width-30, stripH, Black)
	for i := 0; i < snapshot.DailyCount; i++ {
		x := 15 + i*dailyCellW
		d.drawDaily(snap.Weather.Daily[i], x, dailyY, dailyCellW, stripH)
		if i > 0 {
			c.Line(x, dailyY, x, bottomY, Black)
		}
	}

	c.Rect(15, bottomY, width-30, stripH, Black)
	d.drawBottom(snap)

	return c.Image()
}

// WifiQuality converts a signal strength in dBm to 0..100.
func WifiQuality(rssi int) int {
	return min(max(2*(rssi+100), 0), 100)
}

// wifiTiers returns how many arcs the signal indicator shows.
func wifiTiers(quality int) int {
	n := 0
	for _, t := range []int{80, 40, 20, 10} {
		if quality >= t {
			n++
		}
	}
	return n
}

func (d *WeatherDisplay) drawRSSI(x, y, rssi int) {
	c := d.canvas
	tiers := wifiTiers(WifiQuality(rssi))
	for i, r := range []int{4, 8, 12, 16} {
		if i >= tiers {
			break
		}
		c.Arc(x+12, y, r, r-1, 225, 315, Black)
	}
	c.FillCircle(x+12, y, 2, Black)
}

func (d *WeatherDisplay) drawBattery(x, y, capacity int) {
	c := d.canvas
	c.Rect(x, y, 40, 16, Black)
	c.FillRect(x+40, y+3, 4, 10, Black)
	for i := x; i < x+40; i++ {
		c.Line(i, y, i, y+15, Black)
		if float64(i-x)*100/40 > float64(capacity) {
			break
		}
	}
}

func (d *WeatherDisplay) drawHead(snap *snapshot.Snapshot) {
	c := d.canvas
	c.Text(20, 12, fmt.Sprintf(d.labels.Astronauts, snap.Astronauts), 1, Black)
	c.TextCentered(width/2, 12, d.opts.Location, 1, Black)
	c.Text(width-200, 12, fmt.Sprintf("%d%%", WifiQuality(snap.WifiRSSI)), 1, Black)
	d.drawRSSI(width-155, 25, snap.WifiRSSI)
	c.Text(width-110, 12, fmt.Sprintf("%d%%", snap.BatteryCapacity), 1, Black)
	d.drawBattery(width-65, 10, snap.BatteryCapacity)
}

func (d *WeatherDisplay) quadTitle(title string, x, y, dx int) {
	d.canvas.TextCentered(x+dx/2, y+5, title, 2, Black)
	d.canvas.Line(x, y+35, x+dx, y+35, Black)
}

func hourMin(local int64) string {
	if local == 0 {
		return "--:--"
	}
	return time.Unix(local, 0).UTC().Format("15:04")
}

func (d *WeatherDisplay) drawSun(snap *snapshot.Snapshot, x, y, dx, dy int) {
	c := d.canvas
	d.quadTitle("", x, y, dx)

	c.SunriseIcon(x+25, y+55, 64)
	c.Text(x+105, y+75, hourMin(snap.Weather.Sunrise), 2, Black)

	c.SunsetIcon(x+25, y+150, 64)
	c.Text(x+105, y+170, hourMin(snap.Weather.Sunset), 2, Black)
}

func (d *WeatherDisplay) drawOutdoor(snap *snapshot.Snapshot, x, y, dx, dy int) {
	c := d.canvas
	w := &snap.Weather
	d.quadTitle(d.labels.Outdoor, x, y, dx)

	c.WindIcon(x+10, y+40, 32)
	c.Text(x+50, y+48, fmt.Sprintf("%s %.0f km/h", d.labels.Wind, w.WindSpeed*3.6), 1, Black)

	c.ThermometerIcon(x+10, y+80, 64)
	c.Text(x+80, y+95, fmt.Sprintf("%.1f C", w.Temp), 2, Black)
	c.Text(x+80, y+128, fmt.Sprintf("%s %.0f C", d.labels.FeelsLike, w.TempFeelsLike), 1, Black)

	c.HumidityIcon(x+10, y+170, 64)
	c.Text(x+80, y+190, fmt.Sprintf("%.0f%%", w.Humidity), 2, Black)

	icon := w.Icon
	if icon == "" {
		icon = w.Daily[0].Icon
	}
	if icon != "" {
		c.DrawIcon(x+dx-74, y+165, 64, icon)
	}
}

func (d *WeatherDisplay) drawIndoor(snap *snapshot.Snapshot, x, y, dx, dy int) {
	c := d.canvas
	d.quadTitle(d.labels.Indoor, x, y, dx)

	c.ThermometerIcon(x+25, y+85, 64)
	c.Text(x+105, y+105, fmt.Sprintf("%.1f C", snap.IndoorTemp), 2, Black)

	c.HumidityIcon(x+25, y+170, 64)
	c.Text(x+105, y+190, fmt.Sprintf("%.0f%%", snap.IndoorHumidity), 2, Black)
}

func (d *WeatherDisplay) drawStatus(snap *snapshot.Snapshot, x, y, dx, dy int) {
	c := d.canvas
	l := d.labels
	d.quadTitle(l.Status, x, y, dx)

	now := d.clock.Now()
	cx := x + dx/2
	c.TextCentered(cx, y+50, now.Format(l.DateFormat), 2, Black)
	c.TextCentered(cx, y+82, now.Format("15:04"), 3, Black)
	c.TextCentered(cx, y+124, l.Updated, 1, Black)
	if snap.NextWakeMinutes > 0 {
		c.TextCentered(cx, y+140, fmt.Sprintf(l.NextWake, snap.NextWakeMinutes), 1, Black)
	}

	if snap.LeagueNextTeam1 == "" && snap.LeagueMatchday == "" {
		return
	}
	c.Line(x+10, y+165, x+dx-10, y+165, Light)
	c.TextCentered(cx, y+172, snap.LeagueMatchday, 1, Black)
	c.TextCentered(cx, y+190, snap.LeagueNextTeam1, 1, Black)
	c.TextCentered(cx, y+206, snap.LeagueNextTeam2, 1, Black)
	c.TextCentered(cx, y+224, l.kickoff(snap.LeagueNextTime), 1, Black)
}

func (d *WeatherDisplay) drawDaily(day snapshot.Daily, x, y, dx, dy int) {
	c := d.canvas
	if day.Time == 0 && day.Icon == "" {
		return
	}
	c.TextCentered(x+dx/2, y+6, d.labels.weekday(day.Time), 2, Black)
	c.TextCentered(x+dx/2, y+34, fmt.Sprintf("%.0f C", day.MaxTemp), 1, Black)
	c.DrawIcon(x+dx/2-32, y+50, 64, day.Icon)
}

func (d *WeatherDisplay) drawBottom(snap *snapshot.Snapshot) {
	c := d.canvas
	w := &snap.Weather
	hours := d.opts.GraphHours

	c.Text(20, bottomY+3, d.labels.Hourly, 1, Mid)

	var xlabel func(int) string
	if w.Success {
		start := time.Unix(w.CurrentTime, 0).UTC().Hour()
		xlabel = func(i int) string { return strconv.Itoa((start + i) % 24) }
	}

	c.DrawGraph(Graph{
		X:      15,
		Y:      bottomY,
		DX:     225,
		DY:     stripH,
		Title:  d.labels.TempGraph,
		XMin:   0,
		XMax:   hours - 1,
		YMin:   w.MinTemp,
		YMax:   w.MaxTemp,
		Mode:   LineGraph,
		Series: []Series{{Values: w.HourlyTemp[:hours]}},
		XLabel: xlabel,
	})
	c.DrawGraph(Graph{
		X:     240,
		Y:     bottomY,
		DX:    225,
		DY:    stripH,
		Title: d.labels.RainGraph,
		XMin:  0,
		XMax:  hours - 1,
		YMin:  0,
		YMax:  w.MaxRain,
		Mode:  BarGraph,
		Series: []Series{
			{Values: w.HourlyRain[:hours], Fill: Black},
			{Values: w.HourlySnow[:hours], Fill: Light},
		},
	})

	for i, name := range d.opts.AuxPanels {
		if i > 1 {
			break
		}
		x := 465 + i*auxW
		c.Line(x, bottomY, x, bottomY+stripH, Black)
		d.drawAux(name, snap, x, bottomY, auxW, stripH)
	}
}

func (d *WeatherDisplay) drawAux(name string, snap *snapshot.Snapshot, x, y, dx, dy int) {
	c := d.canvas
	l := d.labels
	cx := x + dx/2

	switch name {
	case "maps":
		c.TextCentered(cx, y+8, l.Commute, 1, Black)
		c.Text(x+15, y+40, l.ToWork, 2, Black)
		c.TextRight(x+dx-15, y+40, fmt.Sprintf("%d min", snap.MapsWorkDuration), 2, Black)
		c.Text(x+15, y+78, l.ToHome, 2, Black)
		c.TextRight(x+dx-15, y+78, fmt.Sprintf("%d min", snap.MapsHomeDuration), 2, Black)

	case "corona":
		c.TextCentered(cx, y+8, l.Incidence, 1, Black)
		c.TextCentered(cx, y+26, snap.CoronaName, 1, Black)
		c.TextCentered(cx, y+44, fmt.Sprintf("%.1f", snap.CoronaWeekIncidence), 2, Black)
		c.TextCentered(cx, y+76, fmt.Sprintf("%s %.1f", l.Country, snap.CoronaNationalIncidence), 1, Black)
		if snap.CoronaUpdated != "" {
			c.TextCentered(cx, y+96, l.asOf(snap.CoronaUpdated), 1, Mid)
		}

	case "league":
		c.TextCentered(cx, y+8, l.League, 1, Black)
		c.TextCentered(cx, y+28, snap.LeagueMatchday, 1, Black)
		c.TextCentered(cx, y+48, snap.LeagueNextTeam1, 1, Black)
		c.TextCentered(cx, y+64, "-", 1, Black)
		c.TextCentered(cx, y+80, snap.LeagueNextTeam2, 1, Black)
		if snap.LeagueNextTime != "" {
			c.TextCentered(cx, y+100, l.kickoff(snap.LeagueNextTime), 1, Black)
		}

	case "catfact":
		c.TextCentered(cx, y+8, l.Catfact, 1, Black)
		lines := wrap(snap.Catfact, dx-12, 1)
		maxLines := (dy - 30) / TextHeight(1)
		if len(lines) > maxLines {
			lines = lines[:maxLines]
			last := lines[maxLines-1]
			for TextWidth(last+"...", 1) > dx-12 && len(last) > 0 {
				last = last[:len(last)-1]
			}
			lines[maxLines-1] = last + "..."
		}
		for i, line := range lines {
			c.Text(x+6, y+26+i*TextHeight(1), line, 1, Black)
		}

	default:
		d.log.Debug("unknown aux panel %q", name)
	}
}
