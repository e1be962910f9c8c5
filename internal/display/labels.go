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

package display

import "time"

type labels struct {
	Astronauts string
	Outdoor    string
	Indoor     string
	Status     string
	Wind       string
	FeelsLike  string
	Updated    string
	NextWake   string
	Hourly     string
	TempGraph  string
	RainGraph  string
	Commute    string
	ToWork     string
	ToHome     string
	Incidence  string
	Country    string
	AsOf       string
	League     string
	Catfact    string
	DateFormat string
	Weekdays   [7]string
}

var labelSets = map[string]labels{
	"de": {
		Astronauts: "%d Astronauten",
		Outdoor:    "Aussen",
		Indoor:     "Innen",
		Status:     "Status",
		Wind:       "Wind",
		FeelsLike:  "gefuehlt",
		Updated:    "aktualisiert",
		NextWake:   "naechstes in %d min",
		Hourly:     "stuendlich",
		TempGraph:  "Temp. (C)",
		RainGraph:  "Niederschlag (mm)",
		Commute:    "Arbeitsweg",
		ToWork:     "Arbeit",
		ToHome:     "Heim",
		Incidence:  "Inzidenz",
		Country:    "DE",
		AsOf:       "Stand",
		League:     "Bundesliga",
		Catfact:    "Katzenfakt",
		DateFormat: "02.01.2006",
		Weekdays:   [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	},
	"en": {
		Astronauts: "%d astronauts",
		Outdoor:    "Outdoor",
		Indoor:     "Indoor",
		Status:     "Status",
		Wind:       "Wind",
		FeelsLike:  "feels like",
		Updated:    "updated",
		NextWake:   "next in %d min",
		Hourly:     "hourly",
		TempGraph:  "Temp. (C)",
		RainGraph:  "Precip. (mm)",
		Commute:    "Commute",
		ToWork:     "Work",
		ToHome:     "Home",
		Incidence:  "Incidence",
		Country:    "DE",
		AsOf:       "as of",
		League:     "League",
		Catfact:    "Cat fact",
		DateFormat: "2006-01-02",
		Weekdays:   [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	},
}

func labelsFor(lang string) labels {
	if l, ok := labelSets[lang]; ok {
		return l
	}
	return labelSets["de"]
}

// weekday names a local epoch timestamp.
func (l labels) weekday(local int64) string {
	return l.Weekdays[time.Unix(local, 0).UTC().Weekday()]
}

// kickoff turns an openligadb match time into "Sa 15:30".
func (l labels) kickoff(s string) string {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return s
	}
	return l.Weekdays[t.Weekday()] + " " + t.Format("15:04")
}

// asOf shortens an RFC 3339 update stamp to a date.
func (l labels) asOf(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return l.AsOf + " " + t.Format(l.DateFormat)
}
