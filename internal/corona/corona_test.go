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

package corona

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

const districtDoc = `{
	"data": {"04011": {"ags": "04011", "name": "Bremen", "county": "SK Bremen", "weekIncidence": 87.25}},
	"meta": {"source": "Robert Koch-Institut", "lastUpdate": "2022-03-01T02:00:00.000Z"}
}`

const germanyDoc = `{"cases": 15000000, "weekIncidence": 1259.7, "meta": {"lastUpdate": "2022-03-01T03:00:00.000Z"}}`

func client(t *testing.T, districtOK, germanyOK bool) *Client {
	t.Helper()
	status := func(ok bool) int {
		if ok {
			return http.StatusOK
		}
		return http.StatusBadGateway
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/districts/04011":
			w.WriteHeader(status(districtOK))
			w.Write([]byte(districtDoc))
		case "/germany":
			w.WriteHeader(status(germanyOK))
			w.Write([]byte(germanyDoc))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{Corona: config.CoronaConfig{Enabled: true, BaseURL: srv.URL, District: "04011"}})
}

func TestSuccessFollowsLastRequest(t *testing.T) {
	for _, tc := range []struct {
		name              string
		district, germany bool
		wantOK            bool
	}{
		{"fail,fail", false, false, false},
		{"ok,fail", true, false, false},
		{"fail,ok", false, true, true},
		{"ok,ok", true, true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			snap := snapshot.New(1)
			err := client(t, tc.district, tc.germany).Get(context.Background(), snap)
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, restjson.ErrStatus)
			}
		})
	}
}

func TestFields(t *testing.T) {
	snap := snapshot.New(1)
	require.NoError(t, client(t, true, true).Get(context.Background(), snap))

	assert.Equal(t, "Bremen", snap.CoronaName)
	assert.Equal(t, 87.25, snap.CoronaWeekIncidence)
	assert.Equal(t, 1259.7, snap.CoronaNationalIncidence)
	assert.Equal(t, "2022-03-01T02:00:00.000Z", snap.CoronaUpdated)
}

func TestDistrictFieldsSurviveNationalFailure(t *testing.T) {
	snap := snapshot.New(1)
	assert.Error(t, client(t, true, false).Get(context.Background(), snap))

	assert.Equal(t, "Bremen", snap.CoronaName)
	assert.Equal(t, 87.25, snap.CoronaWeekIncidence)
	assert.Zero(t, snap.CoronaNationalIncidence)
}
