package latlon

import (
	"fmt"
	"math"
)

// ToDMS formats a position as degrees, minutes and seconds, e.g. 47°30'00"N, 02°15'36"W.
// Minutes and seconds are truncated, not rounded.
func ToDMS(p LatLon) string {
	return fmt.Sprintf("%s, %s", dms(p.Lat, "N", "S"), dms(p.Lon, "E", "W"))
}

func dms(coord float64, pos, neg string) string {
	absolute := math.Abs(coord)
	degrees := math.Floor(absolute)
	minutes := math.Floor((absolute - degrees) * 60)
	seconds := math.Floor((absolute - degrees - minutes/60) * 3600)
	if seconds < 0 {
		seconds = 0
	}

	direction := pos
	if coord < 0 {
		direction = neg
	}

	return fmt.Sprintf("%02d°%02d'%02d\"%s", int(degrees), int(minutes), int(seconds), direction)
}

// FindBounds returns the whole degree box containing the first and last points
func FindBounds(points []LatLon) (LatLon, LatLon, bool) {
	if len(points) < 2 {
		return LatLon{}, LatLon{}, false
	}
	first := points[0]
	last := points[len(points)-1]

	sw := LatLon{
		Lat: math.Floor(math.Min(first.Lat, last.Lat)),
		Lon: math.Floor(math.Min(first.Lon, last.Lon)),
	}
	ne := LatLon{
		Lat: math.Ceil(math.Max(first.Lat, last.Lat)),
		Lon: math.Ceil(math.Max(first.Lon, last.Lon)),
	}
	return sw, ne, true
}

// HeadingAt returns the heading of the boat at index i of the track: toward the next
// point, or from the previous one for the last point.
func HeadingAt(track []LatLon, i int) float64 {
	if len(track) < 2 || i < 0 || i >= len(track) {
		return 0
	}
	if i < len(track)-1 {
		return Bearing(track[i], track[i+1])
	}
	return Bearing(track[i-1], track[i])
}

// TrackDistance returns the length of the track in nautical miles
func TrackDistance(track []LatLon) float64 {
	d := 0.0
	for i := 1; i < len(track); i++ {
		d += Haversine{}.DistanceTo(track[i-1], track[i])
	}
	return d / NauticalMile
}
