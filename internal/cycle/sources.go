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

package cycle

import (
	"paperdash/internal/astronaut"
	"paperdash/internal/catfact"
	"paperdash/internal/config"
	"paperdash/internal/corona"
	"paperdash/internal/maps"
	"paperdash/internal/openliga"
	"paperdash/internal/weather"
)

// SourcesFrom returns the enabled sources in fetch order. Weather is
// always last so its result decides the clock and the sleep.
func SourcesFrom(appConf *config.Config) []Source {
	var sources []Source
	if appConf.Astronaut.Enabled {
		sources = append(sources, astronaut.New(appConf))
	}
	if appConf.Corona.Enabled {
		sources = append(sources, corona.New(appConf))
	}
	if appConf.OpenLiga.Enabled {
		sources = append(sources, openliga.New(appConf))
	}
	if appConf.Maps.Enabled {
		sources = append(sources, maps.New(appConf))
	}
	if appConf.Catfact.Enabled {
		sources = append(sources, catfact.New(appConf))
	}
	return append(sources, weather.New(appConf))
}
