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

// Package astronaut counts the people currently in space.
package astronaut

import (
	"context"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type astrosResponse struct {
	Number  *int   `json:"number"`
	Message string `json:"message"`
}

type Client struct {
	log  *logger.Logger
	rest *restjson.Client
}

func New(appConf *config.Config) *Client {
	log := logger.New("Astronaut")
	return &Client{
		log:  log,
		rest: restjson.New(appConf.Astronaut.BaseURL, appConf.FetchTimeout(), log),
	}
}

func (c *Client) Name() string { return "astronaut" }

func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	var resp astrosResponse
	if err := c.rest.Get(ctx, "/astros.json", restjson.MediumDoc, &resp); err != nil {
		c.log.Error("%v", err)
		return err
	}
	snap.Astronauts = restjson.Field(c.log, "number", resp.Number)
	c.log.Info("%d people in space", snap.Astronauts)
	return nil
}
