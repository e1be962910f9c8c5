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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"paperdash/internal/board"
	"paperdash/internal/config"
	"paperdash/internal/cycle"
	"paperdash/internal/display"
	"paperdash/internal/emoncms"
	"paperdash/internal/journal"
	"paperdash/internal/metrics"
	"paperdash/internal/panel"
	"paperdash/internal/publish"
	"paperdash/internal/schedule"
	"paperdash/internal/sensor"
	"paperdash/internal/weather"
	"paperdash/pkg/appctx"
	"paperdash/pkg/eventbus"
	"paperdash/pkg/logger"
	"paperdash/pkg/rootserv"
	"paperdash/pkg/service"
	"paperdash/pkg/sysmon"
)

func main() {

	rootdir := os.Getenv("PROJECT_ROOT")
	if rootdir == "" {
		rootdir = "."
	}

	logPath := filepath.Join(rootdir, "var/logs/paperdash.log")
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "log file %s: %v\n", logPath, err)
	}
	log := logger.New("Main")

	appConf := config.LoadFile(filepath.Join(rootdir, "var/config/paperdash.json"))

	// use conf to pass eventbus to whoever needs it
	appConf.EventBus = eventbus.New()
	appConf.DataDir = filepath.Join(rootdir, "var/data")
	appConf.RootDir = rootdir

	ctx, ctxCancel := appctx.New()

	dev := board.New(appConf)

	var services []service.Runnable
	var panels panel.Multi
	for _, out := range appConf.Panel.Outputs {
		switch out {
		case "png":
			panels = append(panels, panel.NewPNGFile(appConf.Path(appConf.Panel.PNGPath)))
		case "web":
			web := panel.NewWeb(appConf.EventBus)
			panels = append(panels, web)
			services = append(services, web)
		}
	}
	dash := display.New(panels, dev.Clock, display.OptionsFrom(appConf))

	deps := cycle.Deps{
		Board:                  dev,
		Indoor:                 sensor.New(appConf),
		Sources:                cycle.SourcesFrom(appConf),
		Display:                dash,
		Schedule:               schedule.New(appConf.Schedule),
		Bus:                    appConf.EventBus,
		RenderOnNetworkFailure: appConf.Cycle.OnNetworkFailure == "render",
		RainFloor:              appConf.Weather.RainFloor,
	}

	if appConf.MQTT.Enabled {
		deps.Remote = append(deps.Remote, publish.NewMQTT(appConf.MQTT))
	}
	if appConf.EmonCMS.Enabled {
		deps.Remote = append(deps.Remote, emoncms.New(appConf.EmonCMS, appConf.FetchTimeout()))
	}

	var cycleJournal *journal.Journal
	if appConf.Journal.Enabled {
		j, err := journal.Open(appConf.Path(appConf.Journal.Path))
		if err != nil {
			log.Error("journal disabled: %v", err)
		} else {
			cycleJournal = j
			deps.Local = append(deps.Local, j)
		}
	}

	if appConf.HTTP.Addr != "" {
		promMetrics := metrics.New(appConf.EventBus)
		deps.Local = append(deps.Local, promMetrics)

		// attach web handler enabled services
		server := rootserv.New(appConf.HTTP.Addr, "paperdash "+appConf.Location.Name)
		server.Attach("/logger", "Logger", logger.WebService())
		server.Attach("/monitor", "System Monitor", sysmon.New(rootdir))
		server.Attach("/weather", "Weather Forecast", weather.NewPage(appConf.EventBus))
		server.Attach("/metrics", "Prometheus Metrics", promMetrics)
		for _, p := range panels {
			if web, ok := p.(*panel.Web); ok {
				server.Attach("/panel", "Live Panel", web)
			}
		}
		if cycleJournal != nil {
			server.Attach("/journal", "Cycle Journal", cycleJournal)
		}
		services = append(services, server)
	}

	if appConf.Cycle.StatusRefresh && appConf.Power.Mode == "reexec" {
		services = append(services, cycle.NewStatusRefresher(dash, appConf.EventBus, time.Minute))
	}

	// the cycle ends the process: power down returns (exit mode) or
	// replaces the process image (reexec mode)
	c := cycle.New(deps)
	services = append(services, service.Func(func(ctx context.Context) {
		c.Run(ctx)
		ctxCancel()
	}))

	// waits for all services to stop
	code := <-service.Start(ctx, ctxCancel, services)
	appConf.EventBus.Close()
	if cycleJournal != nil {
		cycleJournal.Close()
	}
	logger.Close()
	os.Exit(code)
}
