package latlon

import "math"

// Haversine computes great circle (orthodromic) distances and bearings
type Haversine struct{}

func (Haversine) initialBearingTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	b := toDegrees(θ)

	return wrap360(b)
}

func (Haversine) centralAngle(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceTo returns the great circle distance in meters
func (hav Haversine) DistanceTo(from, to LatLon) float64 {
	return R * hav.centralAngle(from, to)
}

// BearingTo returns the initial bearing in degrees, 0 = north, clockwise, in [0, 360).
// Identical points give 0.
func (hav Haversine) BearingTo(from, to LatLon) float64 {
	return hav.initialBearingTo(from, to)
}

func (hav Haversine) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return R * hav.centralAngle(from, to), hav.initialBearingTo(from, to)
}

// Destination returns the point reached from `from` after `distance` meters on the
// initial bearing
func (Haversine) Destination(from LatLon, bearing float64, distance float64) LatLon {
	φ1 := toRadians(from.Lat)
	λ1 := toRadians(from.Lon)
	θ := toRadians(bearing)

	δ := distance / R

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	lon := wrap360(toDegrees(λ2) + 180) - 180

	return LatLon{Lat: toDegrees(φ2), Lon: lon}
}

// Bearing is the orthodromic heading from prev to curr
func Bearing(prev, curr LatLon) float64 {
	return Haversine{}.BearingTo(prev, curr)
}
