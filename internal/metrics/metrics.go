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

// Package metrics exposes the last cycle as Prometheus gauges.
package metrics

import (
	"context"
	"net/http"
	"time"

	"paperdash/internal/snapshot"
	"paperdash/pkg/eventbus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler
	now      func() time.Time

	cycles        *prometheus.CounterVec
	lastCycle     prometheus.Gauge
	sourceOK      *prometheus.GaugeVec
	indoorTemp    prometheus.Gauge
	indoorHum     prometheus.Gauge
	outdoorTemp   prometheus.Gauge
	battery       prometheus.Gauge
	wifiRSSI      prometheus.Gauge
	nextWake      prometheus.Gauge
	cycleDuration prometheus.Histogram
}

// New registers the cycle metrics, plus event bus counters when eb is set.
func New(eb *eventbus.Bus) *Metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "paperdash", Name: name, Help: help})
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		now:      time.Now,
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperdash",
			Name:      "cycles_total",
			Help:      "Completed cycles by weather outcome.",
		}, []string{"weather"}),
		sourceOK: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "paperdash",
			Name:      "source_success",
			Help:      "1 when the source succeeded in the last cycle.",
		}, []string{"source"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paperdash",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time from wake to publish.",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80},
		}),
		lastCycle:   gauge("last_cycle_timestamp_seconds", "Unix time of the last published cycle."),
		indoorTemp:  gauge("indoor_temperature_celsius", "Indoor temperature."),
		indoorHum:   gauge("indoor_humidity_percent", "Indoor relative humidity."),
		outdoorTemp: gauge("outdoor_temperature_celsius", "Outdoor temperature from the forecast."),
		battery:     gauge("battery_percent", "Battery state of charge."),
		wifiRSSI:    gauge("wifi_rssi_dbm", "Wifi signal strength."),
		nextWake:    gauge("next_wake_minutes", "Scheduled sleep after the last cycle."),
	}

	m.registry.MustRegister(
		m.cycles, m.lastCycle, m.sourceOK, m.indoorTemp, m.indoorHum,
		m.outdoorTemp, m.battery, m.wifiRSSI, m.nextWake, m.cycleDuration,
		collectors.NewGoCollector(),
	)
	if eb != nil {
		m.registerBus(eb)
	}
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) registerBus(eb *eventbus.Bus) {
	stat := func(name, help string, f func(eventbus.Stats) int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "paperdash",
			Subsystem: "eventbus",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(f(eb.Stats())) })
	}
	m.registry.MustRegister(
		stat("events_total", "Events published.", func(s eventbus.Stats) int64 { return s.Events }),
		stat("sent_total", "Events delivered to subscribers.", func(s eventbus.Stats) int64 { return s.Sent }),
		stat("replaced_total", "Stale events replaced in a full subscriber channel.", func(s eventbus.Stats) int64 { return s.Replaced }),
		stat("dropped_total", "Events dropped.", func(s eventbus.Stats) int64 { return s.Dropped }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "paperdash",
			Subsystem: "eventbus",
			Name:      "subscribers",
			Help:      "Active subscriptions.",
		}, func() float64 { return float64(eb.Stats().Subscribers) }),
	)
}

func (m *Metrics) Name() string { return "metrics" }

func (m *Metrics) Publish(_ context.Context, snap *snapshot.Snapshot) error {
	outcome := "failed"
	if snap.Weather.Success {
		outcome = "ok"
		m.outdoorTemp.Set(snap.Weather.Temp)
	}
	m.cycles.WithLabelValues(outcome).Inc()
	m.lastCycle.Set(float64(m.now().Unix()))

	for name, ok := range snap.Sources {
		v := 0.0
		if ok {
			v = 1
		}
		m.sourceOK.WithLabelValues(name).Set(v)
	}
	m.indoorTemp.Set(snap.IndoorTemp)
	m.indoorHum.Set(snap.IndoorHumidity)
	m.battery.Set(float64(snap.BatteryCapacity))
	m.wifiRSSI.Set(float64(snap.WifiRSSI))
	m.nextWake.Set(float64(snap.NextWakeMinutes))
	return nil
}

// ObserveCycle records how long a cycle took.
func (m *Metrics) ObserveCycle(d time.Duration) {
	m.cycleDuration.Observe(d.Seconds())
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
