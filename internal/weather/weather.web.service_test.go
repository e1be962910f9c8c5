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
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"paperdash/internal/events"
	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastAPI(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()
	p := NewPage(eb)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest("GET", "/api/forecast", nil))
	var empty forecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.False(t, empty.Success)

	snap := snapshot.New(1)
	snap.Weather.Success = true
	snap.Weather.CurrentTime = 4600
	snap.Weather.HourlyTemp[1] = 3.5
	eb.Publish(events.TopicSnapshot, events.SnapshotUpdate{Snapshot: snap, Time: time.Now()})

	rec = httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest("GET", "/api/forecast", nil))
	var f forecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.True(t, f.Success)
	require.Len(t, f.Hourly, snapshot.HourlyCount)
	assert.Equal(t, 3.5, f.Hourly[1].Temp)
	assert.Equal(t, 2, f.Hourly[1].Time.Hour())
}
