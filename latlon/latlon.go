package latlon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

const π = math.Pi

// R is the mean earth radius in meters
const R = 6371e3

// NauticalMile in meters
const NauticalMile = 1852.0

type LatLonInterface interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UnmarshalJSON accepts both {"lat": .., "lon": ..} and [lat, lon, ...]
func (p *LatLon) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		// routing tracks append time and speed after the position
		if len(pair) < 2 {
			return fmt.Errorf("latlon: expected [lat, lon], got %d values", len(pair))
		}
		p.Lat, p.Lon = pair[0], pair[1]
		return nil
	}

	type plain LatLon
	var o plain
	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}
	*p = LatLon(o)
	return nil
}

func (p LatLon) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	// -1e-15 + 360 rounds to 360
	if d >= 360.0 {
		d = 0
	}
	return d
}
