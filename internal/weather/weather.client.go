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

// Package weather reads the OpenWeatherMap forecast into the snapshot.
package weather

import (
	"context"
	"fmt"
	"net/url"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"
	"paperdash/pkg/restjson"
)

type condition struct {
	Main *string `json:"main"`
	Icon *string `json:"icon"`
}

type precip struct {
	OneHour *float64 `json:"1h"`
}

type oneCallResponse struct {
	TimezoneOffset *int64 `json:"timezone_offset"`
	Current        struct {
		Dt        *int64      `json:"dt"`
		Sunrise   *int64      `json:"sunrise"`
		Sunset    *int64      `json:"sunset"`
		WindSpeed *float64    `json:"wind_speed"`
		Temp      *float64    `json:"temp"`
		FeelsLike *float64    `json:"feels_like"`
		Humidity  *float64    `json:"humidity"`
		Weather   []condition `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   *int64 `json:"dt"`
		Temp struct {
			Max *float64 `json:"max"`
		} `json:"temp"`
		Weather []condition `json:"weather"`
	} `json:"daily"`
	Hourly []struct {
		Temp *float64 `json:"temp"`
		Rain precip   `json:"rain"`
		Snow precip   `json:"snow"`
	} `json:"hourly"`
}

type currentResponse struct {
	Timezone *int64 `json:"timezone"`
	Dt       *int64 `json:"dt"`
	Sys      struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []condition `json:"weather"`
}

type Client struct {
	log  *logger.Logger
	rest *restjson.Client
	conf config.WeatherConfig
	loc  config.LocationConfig
}

func New(appConf *config.Config) *Client {
	log := logger.New("Weather")
	return &Client{
		log:  log,
		rest: restjson.New(appConf.Weather.BaseURL, appConf.FetchTimeout(), log),
		conf: appConf.Weather,
		loc:  appConf.Location,
	}
}

func (c *Client) Name() string { return "weather" }

// Get replaces snap.Weather on success only. All timestamps are shifted by
// the offset the API reports, so they read as local time when formatted in UTC.
func (c *Client) Get(ctx context.Context, snap *snapshot.Snapshot) error {
	w := snapshot.NewWeather(c.conf.RainFloor)

	var err error
	if c.conf.Variant == "current" {
		err = c.getCurrent(ctx, &w)
	} else {
		err = c.getOneCall(ctx, &w)
	}
	if err != nil {
		c.log.Error("%v", err)
		return err
	}

	w.Success = true
	snap.Weather = w
	return nil
}

func (c *Client) query() string {
	return fmt.Sprintf("lat=%.5f&lon=%.5f&units=metric&lang=%s",
		c.loc.Latitude, c.loc.Longitude, url.QueryEscape(c.conf.Language))
}

func (c *Client) getOneCall(ctx context.Context, w *snapshot.Weather) error {
	path := "/data/2.5/onecall?" + c.query() + "&exclude=minutely&appid=" + url.QueryEscape(c.conf.APIKey)

	var resp oneCallResponse
	if err := c.rest.Get(ctx, path, restjson.LargeDoc, &resp); err != nil {
		return err
	}

	log := c.log
	offset := restjson.Field(log, "timezone_offset", resp.TimezoneOffset)
	cur := &resp.Current

	w.CurrentTimeOffset = offset
	w.CurrentTime = restjson.Field(log, "current.dt", cur.Dt) + offset
	w.Sunrise = restjson.Field(log, "current.sunrise", cur.Sunrise) + offset
	w.Sunset = restjson.Field(log, "current.sunset", cur.Sunset) + offset
	w.WindSpeed = restjson.Field(log, "current.wind_speed", cur.WindSpeed)
	w.Temp = restjson.Field(log, "current.temp", cur.Temp)
	w.TempFeelsLike = restjson.Field(log, "current.feels_like", cur.FeelsLike)
	w.Humidity = restjson.Field(log, "current.humidity", cur.Humidity)
	if len(cur.Weather) > 0 {
		w.Icon = restjson.Field(log, "current.weather[0].icon", cur.Weather[0].Icon)
	}

	for i := 0; i < len(resp.Daily) && i < snapshot.DailyCount; i++ {
		d := &resp.Daily[i]
		w.Daily[i].Time = restjson.Field(log, "daily.dt", d.Dt) + offset
		w.Daily[i].MaxTemp = restjson.Field(log, "daily.temp.max", d.Temp.Max)
		if len(d.Weather) > 0 {
			w.Daily[i].Main = restjson.Field(log, "daily.weather[0].main", d.Weather[0].Main)
			w.Daily[i].Icon = restjson.Field(log, "daily.weather[0].icon", d.Weather[0].Icon)
		}
	}

	n := min(len(resp.Hourly), snapshot.HourlyCount)
	for i := 0; i < n; i++ {
		h := &resp.Hourly[i]
		w.HourlyTemp[i] = restjson.Field(log, "hourly.temp", h.Temp)
		// rain and snow are only present for hours with precipitation
		w.HourlyRain[i] = restjson.Or(h.Rain.OneHour, 0)
		w.HourlySnow[i] = restjson.Or(h.Snow.OneHour, 0)
	}
	w.UpdateBounds(n, c.conf.RainFloor)

	c.log.Info("forecast with %d daily and %d hourly entries", min(len(resp.Daily), snapshot.DailyCount), n)
	return nil
}

func (c *Client) getCurrent(ctx context.Context, w *snapshot.Weather) error {
	path := "/data/2.5/weather?" + c.query() + "&appid=" + url.QueryEscape(c.conf.APIKey)

	var resp currentResponse
	if err := c.rest.Get(ctx, path, restjson.MediumDoc, &resp); err != nil {
		return err
	}

	log := c.log
	offset := restjson.Field(log, "timezone", resp.Timezone)

	w.CurrentTimeOffset = offset
	w.CurrentTime = restjson.Field(log, "dt", resp.Dt) + offset
	w.Sunrise = restjson.Field(log, "sys.sunrise", resp.Sys.Sunrise) + offset
	w.Sunset = restjson.Field(log, "sys.sunset", resp.Sys.Sunset) + offset
	w.WindSpeed = restjson.Field(log, "wind.speed", resp.Wind.Speed)
	w.Temp = restjson.Field(log, "main.temp", resp.Main.Temp)
	w.TempFeelsLike = restjson.Field(log, "main.feels_like", resp.Main.FeelsLike)
	w.Humidity = restjson.Field(log, "main.humidity", resp.Main.Humidity)
	if len(resp.Weather) > 0 {
		w.Icon = restjson.Field(log, "weather[0].icon", resp.Weather[0].Icon)
	}
	w.UpdateBounds(0, c.conf.RainFloor)

	c.log.Info("current conditions %.1fC %s", w.Temp, w.Icon)
	return nil
}
