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

package sysmon

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"runtime"
	"time"

	"paperdash/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is what the device page and the json endpoint report.
type Stats struct {
	GoVersion  string    `json:"go_version"`
	Uptime     uint64    `json:"uptime_s"`
	CPUPercent float64   `json:"cpu_percent"`
	ProcCPU    float64   `json:"process_cpu_percent"`
	MemTotal   uint64    `json:"mem_total"`
	MemUsed    uint64    `json:"mem_used"`
	MemFree    uint64    `json:"mem_free"`
	ProcRSS    uint64    `json:"process_rss"`
	DiskPath   string    `json:"disk_path"`
	DiskTotal  uint64    `json:"disk_total"`
	DiskUsed   uint64    `json:"disk_used"`
	DiskFree   uint64    `json:"disk_free"`
	Started    time.Time `json:"started"`
}

type Service struct {
	dir     string
	started time.Time
	log     *logger.Logger
}

// New monitors the host and the filesystem holding dir (frames, journal, logs).
func New(dir string) *Service {
	if dir == "" {
		dir = "/"
	}
	return &Service{
		log:     logger.New("SysMon"),
		dir:     dir,
		started: time.Now(),
	}
}

// Collect gathers host stats. Individual probe failures leave zeros.
func (s *Service) Collect() Stats {
	st := Stats{
		GoVersion: runtime.Version(),
		DiskPath:  s.dir,
		Started:   s.started,
	}

	if list, err := cpu.Percent(0, false); err == nil && len(list) > 0 {
		st.CPUPercent = list[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil {
		st.MemTotal, st.MemUsed, st.MemFree = vmem.Total, vmem.Used, vmem.Available
	}
	if up, err := host.Uptime(); err == nil {
		st.Uptime = up
	}

	var err error
	st.DiskTotal, st.DiskFree, st.DiskUsed, err = DiskUsage(s.dir)
	if err != nil {
		s.log.Debug("disk usage %s: %v", s.dir, err)
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			st.ProcRSS = mi.RSS
		}
		if pc, err := p.CPUPercent(); err == nil {
			st.ProcCPU = pc
		}
	}
	return st
}

var pageTpl = template.Must(template.New("sysmon").Funcs(template.FuncMap{
	"bytes": humanize.Bytes,
	"ago":   humanize.Time,
	"secs": func(s uint64) string {
		return humanize.RelTime(time.Now().Add(-time.Duration(s)*time.Second), time.Now(), "", "")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Device</title>
	<style>
		body { font-family: sans-serif; margin: 2em; background: #f9f9f9; }
		table { border-collapse: collapse; margin-top: 1em; }
		th, td { border: 1px solid #ccc; padding: 0.6em 1em; text-align: left; }
		th { background: #eee; }
	</style>
</head>
<body>
	<h1>Device</h1>
	<p>Go {{.GoVersion}}, host up {{secs .Uptime}}, process started {{ago .Started}}</p>
	<table>
		<tr><th></th><th>System</th><th>Process</th></tr>
		<tr><td>CPU</td><td>{{printf "%.1f" .CPUPercent}}%</td><td>{{printf "%.1f" .ProcCPU}}%</td></tr>
		<tr><td>Memory</td><td>{{bytes .MemUsed}} of {{bytes .MemTotal}} ({{bytes .MemFree}} free)</td><td>{{bytes .ProcRSS}}</td></tr>
	</table>
	<h2>Disk {{.DiskPath}}</h2>
	<table>
		<tr><th>Total</th><th>Used</th><th>Free</th></tr>
		<tr><td>{{bytes .DiskTotal}}</td><td>{{bytes .DiskUsed}}</td><td>{{bytes .DiskFree}}</td></tr>
	</table>
</body>
</html>
`))

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st := s.Collect()

	if r.Header.Get("Accept") == "application/json" || r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTpl.Execute(w, st); err != nil {
		s.log.Error("render page: %v", err)
	}
}
