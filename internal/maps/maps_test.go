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

package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/restjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixDoc = `{
	"destination_addresses": ["Home", "Work"],
	"origin_addresses": ["Home", "Work"],
	"rows": [
		{"elements": [
			{"status": "OK", "duration": {"value": 0}, "duration_in_traffic": {"text": "1 min", "value": 0}},
			{"status": "OK", "duration": {"value": 1500}, "duration_in_traffic": {"text": "28 min", "value": 1690}}
		]},
		{"elements": [
			{"status": "OK", "duration": {"value": 1480}, "duration_in_traffic": {"text": "31 min", "value": 1875}},
			{"status": "OK", "duration": {"value": 0}, "duration_in_traffic": {"text": "1 min", "value": 0}}
		]}
	],
	"status": "OK"
}`

func client(t *testing.T, status int, body string) (*Client, *url.URL) {
	t.Helper()
	var seen url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r.URL
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{Maps: config.MapsConfig{
		Enabled:  true,
		BaseURL:  srv.URL,
		APIKey:   "secret",
		Language: "de",
		Home:     "53.0793,8.8017",
		Work:     "53.1100,8.8500",
	}}), &seen
}

func TestDurations(t *testing.T) {
	c, u := client(t, 200, matrixDoc)
	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))

	assert.Equal(t, 28, snap.MapsWorkDuration)
	assert.Equal(t, 31, snap.MapsHomeDuration)

	assert.Equal(t, "/maps/api/distancematrix/json", u.Path)
	q := u.Query()
	assert.Equal(t, "now", q.Get("departure_time"))
	assert.Equal(t, "53.0793,8.8017|53.1100,8.8500", q.Get("origins"))
	assert.Equal(t, q.Get("origins"), q.Get("destinations"))
	assert.Equal(t, "secret", q.Get("key"))
}

func TestDeniedRequestYieldsZeros(t *testing.T) {
	c, _ := client(t, 200, `{"destination_addresses": [], "rows": [], "status": "REQUEST_DENIED", "error_message": "invalid key"}`)
	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))
	assert.Zero(t, snap.MapsWorkDuration)
	assert.Zero(t, snap.MapsHomeDuration)
}

func TestTransportFailure(t *testing.T) {
	c, _ := client(t, 403, `{}`)
	snap := snapshot.New(1)
	snap.MapsWorkDuration = 12
	assert.ErrorIs(t, c.Get(context.Background(), snap), restjson.ErrStatus)
	assert.Equal(t, 12, snap.MapsWorkDuration)
}
