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

package restjson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paperdash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Number *int    `json:"number"`
	Name   *string `json:"name"`
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetDecodes(t *testing.T) {
	srv := serve(t, 200, `{"number": 7}`)
	c := New(srv.URL, time.Second, logger.New("test"))

	var d doc
	require.NoError(t, c.Get(context.Background(), "/astros.json", SmallDoc, &d))
	assert.Equal(t, 7, Or(d.Number, -1))
	assert.Equal(t, "", Field(logger.New("test"), "name", d.Name))
}

func TestGetStatus(t *testing.T) {
	srv := serve(t, 500, `{}`)
	c := New(srv.URL, time.Second, logger.New("test"))

	var d doc
	err := c.Get(context.Background(), "/", SmallDoc, &d)
	assert.ErrorIs(t, err, ErrStatus)
}

func TestGetMalformed(t *testing.T) {
	srv := serve(t, 200, `{"number": `)
	c := New(srv.URL, time.Second, logger.New("test"))

	var d doc
	assert.ErrorIs(t, c.Get(context.Background(), "/", SmallDoc, &d), ErrDecode)
}

func TestGetOverCapacity(t *testing.T) {
	srv := serve(t, 200, `{"name":"`+strings.Repeat("x", SmallDoc)+`"}`)
	c := New(srv.URL, time.Second, logger.New("test"))

	var d doc
	assert.ErrorIs(t, c.Get(context.Background(), "/", SmallDoc, &d), ErrDecode)
	assert.Nil(t, d.Name)
}

func TestGetTransport(t *testing.T) {
	srv := serve(t, 200, `{}`)
	srv.Close()
	c := New(srv.URL, time.Second, logger.New("test"))

	var d doc
	assert.ErrorIs(t, c.Get(context.Background(), "/", SmallDoc, &d), ErrTransport)
}

func TestRedact(t *testing.T) {
	got := Redact("http://api.openweathermap.org:80/data/2.5/onecall?lat=53.1&appid=SECRET")
	assert.NotContains(t, got, "SECRET")
	assert.Contains(t, got, "lat=53.1")

	assert.Equal(t, "http://api.open-notify.org/astros.json", Redact("http://api.open-notify.org/astros.json"))
}
