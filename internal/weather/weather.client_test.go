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
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/restjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, variant string, status int, body []byte) (*Client, *url.URL) {
	t.Helper()
	var seen url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r.URL
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)

	conf := &config.Config{
		Location: config.LocationConfig{Name: "Bremen", Latitude: 53.0793, Longitude: 8.8017},
		Weather: config.WeatherConfig{
			BaseURL:   srv.URL,
			APIKey:    "k3y",
			Language:  "de",
			Variant:   variant,
			RainFloor: 1,
		},
	}
	return New(conf), &seen
}

func TestOneCall(t *testing.T) {
	body, err := os.ReadFile("testdata/onecall.json")
	require.NoError(t, err)
	c, req := newTestClient(t, "onecall", 200, body)

	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))

	w := snap.Weather
	assert.True(t, w.Success)
	assert.Equal(t, int64(4600), w.CurrentTime)
	assert.Equal(t, int64(3600), w.CurrentTimeOffset)
	assert.Equal(t, int64(4300), w.Sunrise)
	assert.Equal(t, int64(33600), w.Sunset)
	assert.Equal(t, 5.0, w.WindSpeed)
	assert.Equal(t, 87.0, w.Humidity)
	assert.Equal(t, "10d", w.Icon)

	assert.Equal(t, int64(46800), w.Daily[0].Time)
	assert.Equal(t, "Mist", w.Daily[4].Main)
	assert.Equal(t, 5.5, w.Daily[4].MaxTemp)

	assert.Equal(t, -2.5, w.HourlyTemp[2])
	assert.Equal(t, 2.2, w.HourlySnow[2])
	assert.Zero(t, w.HourlyRain[3])
	assert.Zero(t, w.HourlyTemp[4])

	assert.Equal(t, -4, w.MinTemp)
	assert.Equal(t, 8, w.MaxTemp)
	assert.Equal(t, 4, w.MaxRain)

	assert.Equal(t, "/data/2.5/onecall", req.Path)
	q := req.Query()
	assert.Equal(t, "53.07930", q.Get("lat"))
	assert.Equal(t, "metric", q.Get("units"))
	assert.Equal(t, "minutely", q.Get("exclude"))
	assert.Equal(t, "k3y", q.Get("appid"))
}

func TestOneCallMinimal(t *testing.T) {
	c, _ := newTestClient(t, "onecall", 200, []byte(`{"timezone_offset":3600,"current":{"dt":1000}}`))

	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))
	assert.True(t, snap.Weather.Success)
	assert.Equal(t, int64(4600), snap.Weather.CurrentTime)
	assert.Zero(t, snap.Weather.Temp)
	assert.Equal(t, "", snap.Weather.Daily[0].Icon)
	assert.Equal(t, 0, snap.Weather.MinTemp)
	assert.Equal(t, 5, snap.Weather.MaxTemp)
	assert.Equal(t, 1, snap.Weather.MaxRain)
}

func TestStatusLeavesWeatherUntouched(t *testing.T) {
	body, err := os.ReadFile("testdata/onecall.json")
	require.NoError(t, err)
	c, _ := newTestClient(t, "onecall", 500, body)

	snap := snapshot.New(1)
	before := snap.Weather

	err = c.Get(context.Background(), snap)
	assert.ErrorIs(t, err, restjson.ErrStatus)
	assert.False(t, snap.Weather.Success)
	assert.Equal(t, before, snap.Weather)
}

func TestMalformed(t *testing.T) {
	c, _ := newTestClient(t, "onecall", 200, []byte(`<html>`))
	snap := snapshot.New(1)
	assert.ErrorIs(t, c.Get(context.Background(), snap), restjson.ErrDecode)
	assert.False(t, snap.Weather.Success)
}

func TestCurrentVariant(t *testing.T) {
	c, req := newTestClient(t, "current", 200, []byte(`{
		"timezone": 7200, "dt": 1000,
		"sys": {"sunrise": 100, "sunset": 200},
		"wind": {"speed": 3.5},
		"main": {"temp": 21.5, "feels_like": 20, "humidity": 40},
		"weather": [{"main": "Clear", "icon": "01d"}]
	}`))

	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))

	w := snap.Weather
	assert.Equal(t, "/data/2.5/weather", req.Path)
	assert.Equal(t, int64(8200), w.CurrentTime)
	assert.Equal(t, int64(7300), w.Sunrise)
	assert.Equal(t, 21.5, w.Temp)
	assert.Equal(t, "01d", w.Icon)
	assert.Equal(t, 5, w.MaxTemp)
}
