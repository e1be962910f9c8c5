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

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"paperdash/pkg/eventbus"
)

type LocationConfig struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type WeatherConfig struct {
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
	Language string `json:"language"`

	// "onecall" (forecast) or "current"
	Variant string `json:"variant"`

	// lowest top of the precipitation axis in mm/h
	RainFloor int `json:"rain_floor"`
}

type AstronautConfig struct {
	Enabled bool   `json:"enabled"`
	BaseURL string `json:"base_url"`
}

type CoronaConfig struct {
	Enabled bool   `json:"enabled"`
	BaseURL string `json:"base_url"`
	// official district key (AGS), e.g. 04011 for Bremen
	District string `json:"district"`
}

type MapsConfig struct {
	Enabled  bool   `json:"enabled"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
	Language string `json:"language"`
	// "lat,lon" or an address
	Home string `json:"home"`
	Work string `json:"work"`
}

type OpenLigaConfig struct {
	Enabled  bool   `json:"enabled"`
	BaseURL  string `json:"base_url"`
	League   string `json:"league"`    // shortcut, e.g. bl1
	LeagueID int    `json:"league_id"` // numeric season league id
	TeamID   int    `json:"team_id"`
}

type CatfactConfig struct {
	Enabled bool   `json:"enabled"`
	BaseURL string `json:"base_url"`
}

type ScheduleConfig struct {
	FailureRetryMinutes int `json:"failure_retry_minutes"`
	WindowStartHour     int `json:"window_start_hour"`
	WindowEndHour       int `json:"window_end_hour"`
	WindowCapMinutes    int `json:"window_cap_minutes"`
	CadenceMinutes      int `json:"cadence_minutes"`
}

type DisplayConfig struct {
	Language     string   `json:"language"`
	SettleMillis int      `json:"settle_millis"`
	GraphHours   int      `json:"graph_hours"`
	AuxPanels    []string `json:"aux_panels"`
}

type PanelConfig struct {
	// any of "png", "web"
	Outputs []string `json:"outputs"`
	PNGPath string   `json:"png_path"`
}

type BoardConfig struct {
	// "host" watches a linux network interface, "none" assumes connectivity
	Network        string `json:"network"`
	Interface      string `json:"interface"`
	ConnectSeconds int    `json:"connect_seconds"`
	WirelessPath   string `json:"wireless_path"`
	BatteryPath    string `json:"battery_path"`
	// "system" sets the OS clock, "soft" only keeps an offset
	Clock string `json:"clock"`
}

type IndoorConfig struct {
	// "none", "modbus", "zwave" or "host"
	Kind string `json:"kind"`

	ModbusAddr      string `json:"modbus_addr"`
	ModbusRegisters string `json:"modbus_registers"`

	ZWaveAddr   string `json:"zwave_addr"`
	ZWaveNodeID int    `json:"zwave_node_id"`

	// gopsutil sensor key, e.g. cpu_thermal
	HostSensor string `json:"host_sensor"`
}

type PowerConfig struct {
	// "exit" or "reexec"
	Mode string `json:"mode"`
}

type CycleConfig struct {
	// "skip" or "render"
	OnNetworkFailure    string `json:"on_network_failure"`
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds"`
	StatusRefresh       bool   `json:"status_refresh"`
}

type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type MQTTConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type EmonCMSConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	APIKey  string `json:"api_key"`
	Node    string `json:"node"`
}

type HTTPConfig struct {
	// empty disables the web surface
	Addr string `json:"addr"`
}

type Config struct {
	Location  LocationConfig  `json:"location"`
	Weather   WeatherConfig   `json:"weather"`
	Astronaut AstronautConfig `json:"astronaut"`
	Corona    CoronaConfig    `json:"corona"`
	Maps      MapsConfig      `json:"maps"`
	OpenLiga  OpenLigaConfig  `json:"openliga"`
	Catfact   CatfactConfig   `json:"catfact"`
	Schedule  ScheduleConfig  `json:"schedule"`
	Display   DisplayConfig   `json:"display"`
	Panel     PanelConfig     `json:"panel"`
	Board     BoardConfig     `json:"board"`
	Indoor    IndoorConfig    `json:"indoor"`
	Power     PowerConfig     `json:"power"`
	Cycle     CycleConfig     `json:"cycle"`
	Journal   JournalConfig   `json:"journal"`
	MQTT      MQTTConfig      `json:"mqtt"`
	EmonCMS   EmonCMSConfig   `json:"emoncms"`
	HTTP      HTTPConfig      `json:"http"`

	// not loaded from file, but added here to
	// pass to all services alongside config
	EventBus *eventbus.Bus `json:"-"`
	RootDir  string        `json:"-"`
	DataDir  string        `json:"-"`
}

// FetchTimeout is the per request timeout for every data source.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Cycle.FetchTimeoutSeconds) * time.Second
}

// Path resolves p against the project root unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}

func LoadFile(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open config: %v", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		log.Fatalf("config %s: %v", path, err)
	}
	return c
}

// Parse decodes a config document, fills defaults and validates the enums.
func Parse(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	defInt := func(n *int, v int) {
		if *n == 0 {
			*n = v
		}
	}

	def(&c.Location.Name, "Bremen")
	if c.Location.Latitude == 0 && c.Location.Longitude == 0 {
		c.Location.Latitude, c.Location.Longitude = 53.0793, 8.8017
	}

	def(&c.Weather.BaseURL, "http://api.openweathermap.org:80")
	def(&c.Weather.Language, "de")
	def(&c.Weather.Variant, "onecall")
	defInt(&c.Weather.RainFloor, 1)

	def(&c.Astronaut.BaseURL, "http://api.open-notify.org")
	def(&c.Corona.BaseURL, "https://api.corona-zahlen.org")
	def(&c.Corona.District, "04011")
	def(&c.Maps.BaseURL, "https://maps.googleapis.com")
	def(&c.Maps.Language, c.Weather.Language)
	def(&c.OpenLiga.BaseURL, "https://api.openligadb.de")
	def(&c.OpenLiga.League, "bl1")
	def(&c.Catfact.BaseURL, "https://catfact.ninja")

	defInt(&c.Schedule.FailureRetryMinutes, 2)
	defInt(&c.Schedule.WindowEndHour, 5)
	defInt(&c.Schedule.WindowCapMinutes, 120)
	defInt(&c.Schedule.CadenceMinutes, 30)

	def(&c.Display.Language, "de")
	defInt(&c.Display.SettleMillis, 1000)
	defInt(&c.Display.GraphHours, 6)
	if len(c.Display.AuxPanels) == 0 {
		c.Display.AuxPanels = []string{"maps", "corona"}
	}

	if len(c.Panel.Outputs) == 0 {
		c.Panel.Outputs = []string{"png"}
	}
	def(&c.Panel.PNGPath, "var/cache/panel.png")

	def(&c.Board.Network, "host")
	def(&c.Board.Interface, "wlan0")
	defInt(&c.Board.ConnectSeconds, 20)
	def(&c.Board.WirelessPath, "/proc/net/wireless")
	def(&c.Board.BatteryPath, "/sys/class/power_supply/BAT0")
	def(&c.Board.Clock, "soft")

	def(&c.Indoor.Kind, "none")
	def(&c.Indoor.ModbusRegisters, "var/config/indoor.modbus.yml")
	def(&c.Indoor.HostSensor, "cpu_thermal")

	def(&c.Power.Mode, "exit")

	def(&c.Cycle.OnNetworkFailure, "skip")
	defInt(&c.Cycle.FetchTimeoutSeconds, 15)

	def(&c.Journal.Path, "var/data/journal.db")

	def(&c.MQTT.ClientID, "paperdash")
	def(&c.MQTT.Topic, "paperdash/snapshot")

	def(&c.EmonCMS.Node, "paperdash")
}

func (c *Config) validate() error {
	oneOf := func(field, v string, allowed ...string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("%s: %q is not one of %v", field, v, allowed)
	}

	checks := []error{
		oneOf("weather.variant", c.Weather.Variant, "onecall", "current"),
		oneOf("display.language", c.Display.Language, "de", "en"),
		oneOf("board.network", c.Board.Network, "host", "none"),
		oneOf("board.clock", c.Board.Clock, "system", "soft"),
		oneOf("indoor.kind", c.Indoor.Kind, "none", "modbus", "zwave", "host"),
		oneOf("power.mode", c.Power.Mode, "exit", "reexec"),
		oneOf("cycle.on_network_failure", c.Cycle.OnNetworkFailure, "skip", "render"),
	}
	for _, p := range c.Display.AuxPanels {
		checks = append(checks, oneOf("display.aux_panels", p, "maps", "corona", "league", "catfact"))
	}
	for _, o := range c.Panel.Outputs {
		checks = append(checks, oneOf("panel.outputs", o, "png", "web"))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if c.Schedule.WindowStartHour < 0 || c.Schedule.WindowEndHour > 24 || c.Schedule.WindowStartHour >= c.Schedule.WindowEndHour {
		return fmt.Errorf("schedule window %d..%d is not a valid hour range", c.Schedule.WindowStartHour, c.Schedule.WindowEndHour)
	}
	if c.Weather.RainFloor < 1 {
		return fmt.Errorf("weather.rain_floor: must be at least 1, got %d", c.Weather.RainFloor)
	}
	if len(c.Display.AuxPanels) > 2 {
		return fmt.Errorf("display.aux_panels: at most 2 panels, got %d", len(c.Display.AuxPanels))
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.EmonCMS.Enabled && c.EmonCMS.Addr == "" {
		return fmt.Errorf("emoncms.addr is required when emoncms is enabled")
	}
	return nil
}
