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

package astronaut

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/restjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func client(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/astros.json" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{Astronaut: config.AstronautConfig{Enabled: true, BaseURL: srv.URL}})
}

func TestAstronauts(t *testing.T) {
	c := client(t, 200, `{"message": "success", "number": 10, "people": [{"name": "Jasmin Moghbeli", "craft": "ISS"}]}`)
	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))
	assert.Equal(t, 10, snap.Astronauts)
}

func TestMissingNumber(t *testing.T) {
	c := client(t, 200, `{"message": "success"}`)
	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))
	assert.Equal(t, 0, snap.Astronauts)
}

func TestFailureLeavesSnapshot(t *testing.T) {
	c := client(t, 503, `{"number": 10}`)
	snap := snapshot.New(1)
	snap.Astronauts = 3
	assert.ErrorIs(t, c.Get(context.Background(), snap), restjson.ErrStatus)
	assert.Equal(t, 3, snap.Astronauts)
}
