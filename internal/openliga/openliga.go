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

// Package openliga reads the next match of a team and the current matchday
// from openligadb.
package openliga

import (
	"context"
	"fmt"
	"net/url"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type team struct {
	TeamName *string `json:"teamName"`
}

type matchResponse struct {
	MatchDateTime *string `json:"matchDateTime"`
	Team1         team    `json:"team1"`
	Team2         team    `json:"team2"`
}

type groupResponse struct {
	GroupName *string `json:"groupName"`
}

type Client struct {
	log  *logger.Logger
	rest *restjson.Client
	conf config.OpenLigaConfig
}

func New(appConf *config.Config) *Client {
	log := logger.New("OpenLiga")
	return &Client{
		log:  log,
		rest: restjson.New(appConf.OpenLiga.BaseURL, appConf.FetchTimeout(), log),
		conf: appConf.OpenLiga,
	}
}

func (c *Client) Name() string { return "openliga" }

// Get requests the next match, then the current matchday. The result is
// that of the matchday request; match fields stay set even when it fails.
func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := c.getNextMatch(ctx, snap); err != nil {
		c.log.Error("next match: %v", err)
	}

	err := c.getMatchday(ctx, snap)
	if err != nil {
		c.log.Error("current group: %v", err)
		return err
	}
	c.log.Info("%s: %s - %s at %s", snap.LeagueMatchday, snap.LeagueNextTeam1, snap.LeagueNextTeam2, snap.LeagueNextTime)
	return nil
}

func (c *Client) getNextMatch(ctx context.Context, snap *snapshot.Snapshot) error {
	path := fmt.Sprintf("/getnextmatchbyleagueteam/%d/%d", c.conf.LeagueID, c.conf.TeamID)

	var resp matchResponse
	if err := c.rest.Get(ctx, path, restjson.SmallDoc, &resp); err != nil {
		return err
	}
	snap.LeagueNextTeam1 = restjson.Field(c.log, "team1.teamName", resp.Team1.TeamName)
	snap.LeagueNextTeam2 = restjson.Field(c.log, "team2.teamName", resp.Team2.TeamName)
	snap.LeagueNextTime = restjson.Field(c.log, "matchDateTime", resp.MatchDateTime)
	return nil
}

func (c *Client) getMatchday(ctx context.Context, snap *snapshot.Snapshot) error {
	var resp groupResponse
	if err := c.rest.Get(ctx, "/getcurrentgroup/"+url.PathEscape(c.conf.League), restjson.SmallDoc, &resp); err != nil {
		return err
	}
	snap.LeagueMatchday = restjson.Field(c.log, "groupName", resp.GroupName)
	return nil
}
