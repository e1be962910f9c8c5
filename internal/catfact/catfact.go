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

// Package catfact fetches a random cat fact.
package catfact

import (
	"context"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type factResponse struct {
	Fact   *string `json:"fact"`
	Length *int    `json:"length"`
}

type Client struct {
	log  *logger.Logger
	rest *restjson.Client
}

func New(appConf *config.Config) *Client {
	log := logger.New("Catfact")
	return &Client{
		log:  log,
		rest: restjson.New(appConf.Catfact.BaseURL, appConf.FetchTimeout(), log),
	}
}

func (c *Client) Name() string { return "catfact" }

func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	var resp factResponse
	if err := c.rest.Get(ctx, "/fact", restjson.SmallDoc, &resp); err != nil {
		c.log.Error("%v", err)
		return err
	}
	snap.Catfact = restjson.Field(c.log, "fact", resp.Fact)
	c.log.Debug("fact of %d chars", restjson.Or(resp.Length, len(snap.Catfact)))
	return nil
}
