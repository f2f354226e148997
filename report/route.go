package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/a-bouts/nav-viewer/latlon"
)

var (
	// ErrUnknownBoat is returned when a route report has no entry for a boat
	ErrUnknownBoat = errors.New("report: unknown boat")
	// ErrNoData is returned when a report holds no values to display
	ErrNoData = errors.New("report: no data")
)

// Route is the route computed for one boat by the routing server.
// Duration is in hours, TotDist in nautical miles, CalculationTime in seconds.
type Route struct {
	Heading         float64         `json:"heading"`
	Rank            int             `json:"rank"`
	Duration        float64         `json:"duration"`
	TotDist         float64         `json:"totDist"`
	Track           []latlon.LatLon `json:"track"`
	CalculationTime float64         `json:"calculationTime"`
	Polar           string          `json:"polar"`
	Grib            string          `json:"grib"`
}

// Routes is the routing server answer, keyed by boat name
type Routes map[string]Route

// Boat returns the route of the named boat
func (r Routes) Boat(name string) (Route, error) {
	route, ok := r[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownBoat, name)
	}
	return route, nil
}

// Names returns the boat names in alphabetical order
func (r Routes) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type RouteSummary struct {
	Boat            string  `json:"boat"`
	Heading         float64 `json:"heading"`
	Rank            int     `json:"rank"`
	Duration        string  `json:"duration"`
	TotDist         float64 `json:"totDist"`
	Points          int     `json:"points"`
	CalculationTime float64 `json:"calculationTime"`
	Polar           string  `json:"polar"`
	Grib            string  `json:"grib"`
	Start           string  `json:"start,omitempty"`
	Arrival         string  `json:"arrival,omitempty"`
}

// Summary returns the route metadata ready for display
func (r Route) Summary(boat string) RouteSummary {
	s := RouteSummary{
		Boat:            boat,
		Heading:         r.Heading,
		Rank:            r.Rank,
		Duration:        FormatDuration(int64(r.Duration*3600 + 0.5)),
		TotDist:         r.TotDist,
		Points:          len(r.Track),
		CalculationTime: r.CalculationTime,
		Polar:           r.Polar,
		Grib:            r.Grib,
	}
	if len(r.Track) > 0 {
		s.Start = latlon.ToDMS(r.Track[0])
		s.Arrival = latlon.ToDMS(r.Track[len(r.Track)-1])
	}
	return s
}
