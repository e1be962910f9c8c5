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

// Package corona reads the weekly incidence of a district and of the whole country.
package corona

import (
	"context"
	"net/url"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type meta struct {
	LastUpdate *string `json:"lastUpdate"`
}

type districtResponse struct {
	Data map[string]struct {
		Name          *string  `json:"name"`
		WeekIncidence *float64 `json:"weekIncidence"`
	} `json:"data"`
	Meta meta `json:"meta"`
}

type germanyResponse struct {
	WeekIncidence *float64 `json:"weekIncidence"`
	Meta          meta     `json:"meta"`
}

type Client struct {
	log      *logger.Logger
	rest     *restjson.Client
	district string
}

func New(appConf *config.Config) *Client {
	log := logger.New("Corona")
	return &Client{
		log:      log,
		rest:     restjson.New(appConf.Corona.BaseURL, appConf.FetchTimeout(), log),
		district: appConf.Corona.District,
	}
}

func (c *Client) Name() string { return "corona" }

// Get requests the district, then the national figure. The result is that of
// the national request; district fields stay set even when it fails.
func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := c.getDistrict(ctx, snap); err != nil {
		c.log.Error("district %s: %v", c.district, err)
	}

	err := c.getGermany(ctx, snap)
	if err != nil {
		c.log.Error("germany: %v", err)
		return err
	}
	c.log.Info("%s %.1f, germany %.1f", snap.CoronaName, snap.CoronaWeekIncidence, snap.CoronaNationalIncidence)
	return nil
}

func (c *Client) getDistrict(ctx context.Context, snap *snapshot.Snapshot) error {
	var resp districtResponse
	if err := c.rest.Get(ctx, "/districts/"+url.PathEscape(c.district), restjson.MediumDoc, &resp); err != nil {
		return err
	}

	d, ok := resp.Data[c.district]
	if !ok {
		c.log.Debug("missing field data.%s", c.district)
	}
	snap.CoronaName = restjson.Field(c.log, "data."+c.district+".name", d.Name)
	snap.CoronaWeekIncidence = restjson.Field(c.log, "data."+c.district+".weekIncidence", d.WeekIncidence)
	snap.CoronaUpdated = restjson.Field(c.log, "meta.lastUpdate", resp.Meta.LastUpdate)
	return nil
}

func (c *Client) getGermany(ctx context.Context, snap *snapshot.Snapshot) error {
	var resp germanyResponse
	if err := c.rest.Get(ctx, "/germany", restjson.MediumDoc, &resp); err != nil {
		return err
	}
	snap.CoronaNationalIncidence = restjson.Field(c.log, "weekIncidence", resp.WeekIncidence)
	if snap.CoronaUpdated == "" {
		snap.CoronaUpdated = restjson.Or(resp.Meta.LastUpdate, "")
	}
	return nil
}
