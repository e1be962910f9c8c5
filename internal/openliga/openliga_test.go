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

package openliga

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/restjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchDoc = `{
	"matchID": 66400,
	"matchDateTime": "2023-10-21T15:30:00",
	"leagueName": "1. Fussball-Bundesliga 2023/2024",
	"group": {"groupName": "9. Spieltag", "groupOrderID": 9},
	"team1": {"teamId": 134, "teamName": "Werder Bremen", "shortName": "Bremen"},
	"team2": {"teamId": 40, "teamName": "FC Bayern München", "shortName": "Bayern"}
}`

const groupDoc = `{"groupName": "8. Spieltag", "groupOrderID": 8, "groupID": 42}`

func client(t *testing.T, matchStatus, groupStatus int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/getnextmatchbyleagueteam/4608/134":
			w.WriteHeader(matchStatus)
			w.Write([]byte(matchDoc))
		case r.URL.Path == "/getcurrentgroup/bl1":
			w.WriteHeader(groupStatus)
			w.Write([]byte(groupDoc))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{OpenLiga: config.OpenLigaConfig{
		Enabled: true, BaseURL: srv.URL, League: "bl1", LeagueID: 4608, TeamID: 134,
	}})
}

func TestNextMatchAndMatchday(t *testing.T) {
	snap := snapshot.New(1)
	require.NoError(t, client(t, 200, 200).Get(context.Background(), snap))

	assert.Equal(t, "Werder Bremen", snap.LeagueNextTeam1)
	assert.Equal(t, "FC Bayern München", snap.LeagueNextTeam2)
	assert.Equal(t, "2023-10-21T15:30:00", snap.LeagueNextTime)
	assert.Equal(t, "8. Spieltag", snap.LeagueMatchday)
}

func TestSuccessFollowsLastRequest(t *testing.T) {
	for _, tc := range []struct {
		match, group int
		wantOK       bool
	}{
		{500, 500, false},
		{200, 500, false},
		{500, 200, true},
		{200, 200, true},
	} {
		err := client(t, tc.match, tc.group).Get(context.Background(), snapshot.New(1))
		if tc.wantOK {
			assert.NoError(t, err, "match %d group %d", tc.match, tc.group)
		} else {
			assert.ErrorIs(t, err, restjson.ErrStatus, "match %d group %d", tc.match, tc.group)
		}
	}
}

func TestOversizedMatch(t *testing.T) {
	big := `{"matchDateTime": "` + strings.Repeat("9", restjson.SmallDoc) + `"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/getcurrentgroup/") {
			w.Write([]byte(groupDoc))
			return
		}
		w.Write([]byte(big))
	}))
	defer srv.Close()

	c := New(&config.Config{OpenLiga: config.OpenLigaConfig{BaseURL: srv.URL, League: "bl1"}})
	snap := snapshot.New(1)
	require.NoError(t, c.Get(context.Background(), snap))
	assert.Equal(t, "", snap.LeagueNextTime)
	assert.Equal(t, "8. Spieltag", snap.LeagueMatchday)
}
