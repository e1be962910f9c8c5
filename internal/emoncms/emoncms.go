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

// Package emoncms posts the numeric snapshot values as EmonCMS inputs.
package emoncms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	node   string
	apiKey string
	http   *resty.Client
	log    *logger.Logger
}

func New(cfg config.EmonCMSConfig, timeout time.Duration) *Client {
	log := logger.New("EmonCMS")
	return &Client{
		node:   cfg.Node,
		apiKey: cfg.APIKey,
		http: resty.New().
			SetBaseURL(cfg.Addr).
			SetTimeout(timeout).
			SetLogger(log),
		log: log,
	}
}

func (c *Client) Name() string { return "emoncms" }

// Values flattens a snapshot into EmonCMS inputs. Weather inputs are only
// present when the forecast was fetched this cycle.
func Values(snap *snapshot.Snapshot) map[string]float64 {
	v := map[string]float64{
		"indoor_temp":     snap.IndoorTemp,
		"indoor_humidity": snap.IndoorHumidity,
		"wifi_rssi":       float64(snap.WifiRSSI),
		"battery":         float64(snap.BatteryCapacity),
		"next_wake":       float64(snap.NextWakeMinutes),
	}
	if w := snap.Weather; w.Success {
		v["outdoor_temp"] = w.Temp
		v["outdoor_humidity"] = w.Humidity
		v["wind_speed"] = w.WindSpeed
		v["rain_1h"] = w.HourlyRain[0]
	}
	return v
}

func (c *Client) Publish(ctx context.Context, snap *snapshot.Snapshot) error {
	data, err := json.Marshal(Values(snap))
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"node":     c.node,
			"apikey":   c.apiKey,
			"fulljson": string(data),
		}).
		Get("/input/post")
	if err != nil {
		return fmt.Errorf("input post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("input post: status %d", resp.StatusCode())
	}
	c.log.Debug("posted %d inputs to node %s", len(Values(snap)), c.node)
	return nil
}
