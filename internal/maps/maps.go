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

// Package maps reads the commute duration in traffic from the distance matrix API.
package maps

import (
	"context"
	"net/url"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type element struct {
	Status            *string `json:"status"`
	DurationInTraffic struct {
		Value *int    `json:"value"` // seconds
		Text  *string `json:"text"`
	} `json:"duration_in_traffic"`
}

type matrixResponse struct {
	Status *string `json:"status"`
	Rows   []struct {
		Elements []element `json:"elements"`
	} `json:"rows"`
}

// at returns rows[row].elements[col], nil when the matrix is smaller.
func (m *matrixResponse) at(row, col int) *element {
	if row >= len(m.Rows) || col >= len(m.Rows[row].Elements) {
		return nil
	}
	return &m.Rows[row].Elements[col]
}

type Client struct {
	log  *logger.Logger
	rest *restjson.Client
	conf config.MapsConfig
}

func New(appConf *config.Config) *Client {
	log := logger.New("Maps")
	return &Client{
		log:  log,
		rest: restjson.New(appConf.Maps.BaseURL, appConf.FetchTimeout(), log),
		conf: appConf.Maps,
	}
}

func (c *Client) Name() string { return "maps" }

// Get asks for the home/work matrix in both directions. Row 0 starts at
// home, so home to work is element 1 of row 0 and the way back element 0 of row 1.
func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	places := c.conf.Home + "|" + c.conf.Work
	q := url.Values{}
	q.Set("key", c.conf.APIKey)
	q.Set("language", c.conf.Language)
	q.Set("departure_time", "now")
	q.Set("origins", places)
	q.Set("destinations", places)

	var resp matrixResponse
	if err := c.rest.Get(ctx, "/maps/api/distancematrix/json?"+q.Encode(), restjson.MediumDoc, &resp); err != nil {
		c.log.Error("%v", err)
		return err
	}

	status := restjson.Field(c.log, "status", resp.Status)
	if status != "OK" {
		c.log.Error("distance matrix status %q", status)
	}

	snap.MapsWorkDuration = c.minutes(resp.at(0, 1), "rows[0].elements[1]")
	snap.MapsHomeDuration = c.minutes(resp.at(1, 0), "rows[1].elements[0]")
	c.log.Info("to work %d min, home %d min", snap.MapsWorkDuration, snap.MapsHomeDuration)
	return nil
}

func (c *Client) minutes(e *element, path string) int {
	if e == nil {
		c.log.Debug("missing field %s", path)
		return 0
	}
	return restjson.Field(c.log, path+".duration_in_traffic.value", e.DurationInTraffic.Value) / 60
}
