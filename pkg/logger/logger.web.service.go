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

package logger

import (
	"bufio"
	"html/template"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
)

// Service implements http.Handler for debug/log control
type Service struct {
	mu sync.Mutex
}

func WebService() *Service {
	return &Service{}
}

// ServeHTTP implements http.Handler
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/toggle":
		EnableDebug(!IsDebug())
		http.Redirect(w, r, "/logger", http.StatusSeeOther)

	case "/clear":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.clearLog(); err != nil {
			http.Error(w, "failed to clear log: "+err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/logger", http.StatusSeeOther)

	case "/raw":
		logs, err := s.tail(1000)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, logs)

	default:
		s.renderPage(w, r)
	}
}

var pageTpl = template.Must(template.New("page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>paperdash log</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 2em; background: #f9f9f9; color: #333; }
    .btn { display:inline-block; padding:0.5em 1em; margin:0.2em; font-size:0.9em;
           background:#444; color:white; border:none; border-radius:4px; cursor:pointer; text-decoration:none; }
    .btn-danger { background:#dc3545; }
    pre.log { background:#222; color:#eee; padding:1em; border-radius:6px; max-height:500px; overflow:auto; }
  </style>
</head>
<body>
  <h1>Log</h1>
  <p>
    <b>Debug:</b> {{if .Debug}}<span style="color:green;">ON</span>{{else}}<span style="color:red;">OFF</span>{{end}}
    {{if .File}} &middot; <b>File:</b> {{.File}} ({{.Size}}){{end}}
  </p>
  <form method="POST" action="/logger/toggle" style="display:inline;">
    <button class="btn" type="submit">Toggle Debug</button>
  </form>
  <form method="POST" action="/logger/clear" style="display:inline;">
    <button class="btn btn-danger" type="submit">Clear Log</button>
  </form>
  <a class="btn" href="/logger/raw">Raw</a>
  <h2>Last {{.Lines}} lines</h2>
  <pre class="log">{{.Log}}</pre>
</body>
</html>
`))

func (s *Service) renderPage(w http.ResponseWriter, _ *http.Request) {
	const lines = 250
	logs, _ := s.tail(lines)

	var name, size string
	if logFile != nil {
		name = logFile.Name()
		if st, err := os.Stat(name); err == nil {
			size = humanize.Bytes(uint64(st.Size()))
		}
	}

	_ = pageTpl.Execute(w, map[string]any{
		"Debug": IsDebug(),
		"File":  name,
		"Size":  size,
		"Lines": lines,
		"Log":   logs,
	})
}

// clearLog truncates the log file and rebuilds the base logger on top of it
func (s *Service) clearLog() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if logFile == nil {
		return nil
	}

	name := logFile.Name()
	logFile.Close()

	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logFile = nil
		setOutput(os.Stdout)
		return err
	}
	logFile = f
	setOutput(io.MultiWriter(os.Stdout, logFile))
	return nil
}

// tail reads last n lines of the log file
func (s *Service) tail(n int) (string, error) {
	if logFile == nil {
		return "", nil
	}
	f, err := os.Open(logFile.Name())
	if err != nil {
		return "", err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	return strings.Join(ring, "\n"), sc.Err()
}
