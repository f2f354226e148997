package race

import (
	"errors"
	"fmt"

	"github.com/a-bouts/nav-viewer/latlon"
)

var ErrTooFewWaypoints = errors.New("race: at least two waypoints are needed")

type IceLimits struct {
	North  []latlon.LatLon `json:"north"`
	South  []latlon.LatLon `json:"south"`
	MaxLat float64         `json:"maxLat"`
	MinLat float64         `json:"minLat"`
}

// Race is a route plan: the ordered waypoints from the start to the finish, with the
// polar and grib files chosen for the routing
type Race struct {
	Name      string          `json:"name"`
	Polar     string          `json:"polar"`
	Grib      string          `json:"grib"`
	Waypoints []latlon.LatLon `json:"waypoints"`
	IceLimits IceLimits       `json:"ice_limits"`
}

// Leg is the way between two successive waypoints. Distances are in nautical miles,
// Bearing is the initial great circle bearing.
type Leg struct {
	From        latlon.LatLon `json:"from"`
	To          latlon.LatLon `json:"to"`
	Ortho       float64       `json:"ortho"`
	Loxo        float64       `json:"loxo"`
	Bearing     float64       `json:"bearing"`
	LoxoBearing float64       `json:"loxoBearing"`
}

func (r Race) Validate() error {
	if len(r.Waypoints) < 2 {
		return ErrTooFewWaypoints
	}
	for i, p := range r.Waypoints {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -360 || p.Lon > 360 {
			return fmt.Errorf("race: waypoint %d %v out of range", i, p)
		}
		if r.IceLimits.IsInIceLimits(&r.Waypoints[i]) {
			return fmt.Errorf("race: waypoint %d %v is inside the ice limits", i, p)
		}
	}
	return nil
}

func (r Race) Legs() []Leg {
	var legs []Leg
	for i := 1; i < len(r.Waypoints); i++ {
		from, to := r.Waypoints[i-1], r.Waypoints[i]
		ortho, bearing := latlon.Haversine{}.DistanceAndBearingTo(from, to)
		loxo, loxoBearing := latlon.Loxodrome{}.DistanceAndBearingTo(from, to)
		legs = append(legs, Leg{
			From:        from,
			To:          to,
			Ortho:       ortho / latlon.NauticalMile,
			Loxo:        loxo / latlon.NauticalMile,
			Bearing:     bearing,
			LoxoBearing: loxoBearing,
		})
	}
	return legs
}

// GreatCircles returns the great circle path of each leg, n segments per leg
func (r Race) GreatCircles(n int) [][]latlon.LatLon {
	var paths [][]latlon.LatLon
	for i := 1; i < len(r.Waypoints); i++ {
		paths = append(paths, latlon.GreatCirclePath(r.Waypoints[i-1], r.Waypoints[i], n))
	}
	return paths
}

// Bounds returns the whole degree box of the start and the finish
func (r Race) Bounds() (latlon.LatLon, latlon.LatLon, bool) {
	return latlon.FindBounds(r.Waypoints)
}

// IsInIceLimits tells whether a position is beyond the ice limits. North and South are
// sampled every 5° of longitude from -180.
func (iceLimits *IceLimits) IsInIceLimits(latLon *latlon.LatLon) bool {

	lon := latLon.Lon
	if lon > 180 {
		lon -= 360
	}
	if lon < -180 {
		lon += 360
	}

	if iceLimits.MinLat < latLon.Lat && latLon.Lat < iceLimits.MaxLat {
		return false
	}

	limit := iceLimits.South
	if latLon.Lat > 0.0 {
		limit = iceLimits.North
	}

	i := int((lon + 180) / 5)
	if i+1 >= len(limit) {
		return false
	}

	lat := (lon-limit[i].Lon)/(limit[i+1].Lon-limit[i].Lon)*(limit[i+1].Lat-limit[i].Lat) + limit[i].Lat
	if latLon.Lat > 0.0 {
		return latLon.Lat >= lat
	}
	return latLon.Lat <= lat
}
