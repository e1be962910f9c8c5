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

package catfact

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
		assert.Equal(t, "/fact", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{Catfact: config.CatfactConfig{Enabled: true, BaseURL: srv.URL}})
}

func TestFactReportsSuccess(t *testing.T) {
	snap := snapshot.New(1)
	err := client(t, 200, `{"fact": "Cats sleep 70% of their lives.", "length": 30}`).Get(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "Cats sleep 70% of their lives.", snap.Catfact)
}

func TestFactFailure(t *testing.T) {
	snap := snapshot.New(1)
	err := client(t, 429, `{"message": "Too Many Attempts."}`).Get(context.Background(), snap)
	assert.ErrorIs(t, err, restjson.ErrStatus)
	assert.Empty(t, snap.Catfact)
}
