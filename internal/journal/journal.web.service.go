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

package journal

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var pageTmpl = template.Must(template.New("journal").Funcs(template.FuncMap{
	"ago": humanize.Time,
	"outdoor": func(e Entry) string {
		if !e.OutdoorTemp.Valid {
			return "-"
		}
		return fmt.Sprintf("%.1f", e.OutdoorTemp.Float64)
	},
	"join": func(s []string) string { return strings.Join(s, ", ") },
	"local": func(t time.Time) string { return t.Local().Format(time.DateTime) },
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Cycle journal</title>
<style>
body { font-family: sans-serif; margin: 2em; }
td, th { padding: 2px 10px; text-align: right; }
tr.fail td { color: #a00; }
</style></head>
<body>
<h1>Cycle journal</h1>
<p>{{len .}} most recent cycles</p>
<table>
<tr><th>when</th><th></th><th>weather</th><th>outdoor C</th><th>indoor C</th><th>battery %</th><th>rssi</th><th>next wake</th><th>failed sources</th></tr>
{{range .}}<tr{{if not .WeatherOK}} class="fail"{{end}}>
<td>{{local .Time}}</td><td>{{ago .Time}}</td><td>{{if .WeatherOK}}ok{{else}}failed{{end}}</td>
<td>{{outdoor .}}</td><td>{{printf "%.1f" .IndoorTemp}}</td><td>{{.Battery}}</td><td>{{.WifiRSSI}}</td>
<td>{{.NextWake}} min</td><td>{{join .SourcesFailed}}</td>
</tr>{{end}}
</table>
</body></html>`))

func (j *Journal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries, err := j.Recent(r.Context(), 100)
	if err != nil {
		j.log.Error("recent: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, entries); err != nil {
		j.log.Error("render: %v", err)
	}
}
