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

package weather

import (
	"encoding/json"
	"net/http"
	"time"

	"paperdash/internal/events"
	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"
)

// Page serves the forecast of the last published snapshot.
//   - GET /              -> HTML chart (Chart.js from CDN)
//   - GET /api/forecast  -> JSON of the hourly series and bounds
type Page struct {
	eb *eventbus.Bus
}

func NewPage(eb *eventbus.Bus) *Page {
	return &Page{eb: eb}
}

type hourlyPoint struct {
	Time time.Time `json:"time"`
	Temp float64   `json:"temp_c"`
	Rain float64   `json:"rain_mm"`
	Snow float64   `json:"snow_mm"`
}

type forecast struct {
	Success bool          `json:"success"`
	Updated time.Time     `json:"updated"`
	MinTemp int           `json:"min_temp"`
	MaxTemp int           `json:"max_temp"`
	MaxRain int           `json:"max_rain"`
	Hourly  []hourlyPoint `json:"hourly"`
}

func (p *Page) forecast() forecast {
	ev, ok := p.eb.GetLast(events.TopicSnapshot)
	if !ok {
		return forecast{}
	}
	u, ok := ev.(events.SnapshotUpdate)
	if !ok || u.Snapshot == nil {
		return forecast{}
	}

	w := u.Snapshot.Weather
	f := forecast{
		Success: w.Success,
		Updated: u.Time,
		MinTemp: w.MinTemp,
		MaxTemp: w.MaxTemp,
		MaxRain: w.MaxRain,
	}
	if !w.Success {
		return f
	}
	// local epoch seconds, so the hour labels are read in UTC
	start := time.Unix(w.CurrentTime, 0).UTC().Truncate(time.Hour)
	for i := 0; i < snapshot.HourlyCount; i++ {
		f.Hourly = append(f.Hourly, hourlyPoint{
			Time: start.Add(time.Duration(i) * time.Hour),
			Temp: w.HourlyTemp[i],
			Rain: w.HourlyRain[i],
			Snow: w.HourlySnow[i],
		})
	}
	return f
}

var htmlPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<title>Forecast</title>
<style>
body { font-family: system-ui, -apple-system, "Segoe UI", Roboto, Arial; padding: 24px }
.container { max-width: 900px; margin: 0 auto }
.card { border-radius: 8px; padding: 16px; box-shadow: 0 2px 6px rgba(0,0,0,0.08) }
</style>
</head>
<body>
<div class="container">
<h1>Hourly forecast</h1>
<div class="card">
<canvas id="chart" width="860" height="300"></canvas>
</div>
<p id="updated"></p>
</div>

<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<script>
async function render() {
  const res = await fetch('./api/forecast');
  const f = await res.json();
  document.getElementById('updated').textContent = f.success ? 'Updated ' + new Date(f.updated).toLocaleString() : 'No forecast yet';
  const h = f.hourly || [];
  new Chart(document.getElementById('chart').getContext('2d'), {
    data: {
      labels: h.map(x => x.time.substring(11, 16)),
      datasets: [
        { type: 'line', label: 'C', data: h.map(x => x.temp_c), yAxisID: 't', tension: 0.2 },
        { type: 'bar', label: 'rain mm', data: h.map(x => x.rain_mm), yAxisID: 'r' },
        { type: 'bar', label: 'snow mm', data: h.map(x => x.snow_mm), yAxisID: 'r' }
      ]
    },
    options: { scales: {
      t: { position: 'left', min: f.min_temp, max: f.max_temp },
      r: { position: 'right', min: 0, max: f.max_rain }
    } }
  });
}
render();
</script>
</body>
</html>`

func (p *Page) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "", "/":
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = rw.Write([]byte(htmlPage))
	case "/api/forecast":
		rw.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(rw)
		enc.SetIndent("", "  ")
		_ = enc.Encode(p.forecast())
	default:
		http.NotFound(rw, r)
	}
}
