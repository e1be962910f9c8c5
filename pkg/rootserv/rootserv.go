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

package rootserv

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"time"

	"paperdash/pkg/logger"
)

// RootServer holds a mux and the list of attached sub-handlers.
type RootServer struct {
	log        *logger.Logger
	addr       string
	title      string
	mux        *http.ServeMux
	subservers map[string]string // path -> description
	mainPage   http.Handler      // optional subserver for '/'
}

// New creates a new RootServer bound to an address.
func New(addr, title string) *RootServer {
	rs := &RootServer{
		addr:       addr,
		title:      title,
		mux:        http.NewServeMux(),
		subservers: make(map[string]string),
		log:        logger.New("HTTPServer"),
	}
	rs.mux.HandleFunc("/index", rs.handleIndex)
	rs.mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rs.mux.HandleFunc("/", rs.handleRoot)
	return rs
}

// Attach registers a new subserver under a path.
// If path == "/", it becomes the main page and can handle its own subpaths.
func (ms *RootServer) Attach(path, desc string, handler http.Handler) {
	ms.log.Debug("Attach: %s", path)

	if path == "/" {
		ms.mainPage = handler
		return
	}

	// ServeMux subtree matching needs a trailing slash
	path = "/" + strings.Trim(path, "/")
	ms.subservers[path] = desc

	// subserver sees paths relative to its mount point
	ms.mux.Handle(path+"/", http.StripPrefix(path, handler))
	ms.mux.Handle(path, http.StripPrefix(path, handler))
}

// Handler exposes the mux, mostly for tests.
func (ms *RootServer) Handler() http.Handler {
	return ms.mux
}

func (ms *RootServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && ms.mainPage == nil {
		http.Redirect(w, r, "/index", http.StatusTemporaryRedirect)
		return
	}
	if ms.mainPage != nil {
		ms.mainPage.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

// handleIndex generates the HTML index page listing all subservers.
func (ms *RootServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	title := html.EscapeString(ms.title)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body>\n", title)
	fmt.Fprintf(w, "<h1>%s</h1><ul>\n", title)

	paths := make([]string, 0, len(ms.subservers))
	for path := range ms.subservers {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		desc := html.EscapeString(ms.subservers[path])
		fmt.Fprintf(w, `<li><a href="%s/">%s</a> - %s</li>`+"\n", path, path, desc)
	}

	fmt.Fprintln(w, "</ul></body></html>")
}

// Run starts serving and blocks until the context is canceled.
func (ms *RootServer) Run(ctx context.Context) {
	ms.log.Info("Listening on %s", ms.addr)

	srv := &http.Server{
		Addr:              ms.addr,
		Handler:           ms.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		ms.log.Info("Stopped")
	case err := <-errCh:
		if err != nil {
			ms.log.Error("Stopped: %T %+v", err, err)
		}
	}
}

func (ms *RootServer) String() string { return "rootserv " + ms.addr }
