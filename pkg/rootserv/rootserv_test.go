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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachStripsPrefix(t *testing.T) {
	rs := New(":0", "paperdash")

	var seen string
	rs.Attach("/journal", "cycle history", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	}))

	srv := httptest.NewServer(rs.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/journal/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/latest", seen)
}

func TestIndexListsSubservers(t *testing.T) {
	rs := New(":0", "paperdash")
	rs.Attach("metrics", "prometheus metrics", http.NotFoundHandler())
	rs.Attach("/logger", "log viewer", http.NotFoundHandler())

	srv := httptest.NewServer(rs.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	s := string(body)
	assert.Contains(t, s, `href="/logger/"`)
	assert.Contains(t, s, `href="/metrics/"`)
	assert.Less(t, strings.Index(s, "/logger"), strings.Index(s, "/metrics"))
}
