package latlon

import "math"

// Loxodrome computes rhumb line distances and bearings (constant heading)
type Loxodrome struct{}

func (Loxodrome) deltas(from, to LatLon) (Δφ, Δψ, Δλ, q float64) {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ = φ2 - φ1

	Δλ = toRadians(to.Lon - from.Lon)
	if math.Abs(Δλ) > π {
		if Δλ > 0 {
			Δλ = -(2*π - Δλ)
		} else {
			Δλ = 2*π + Δλ
		}
	}

	Δψ = math.Log(math.Tan(φ2/2+π/4) / math.Tan(φ1/2+π/4))

	// east-west lines are ill-conditioned with Δφ/Δψ
	q = math.Cos(φ1)
	if math.Abs(Δψ) > 10e-12 {
		q = Δφ / Δψ
	}
	return
}

// DistanceTo returns the rhumb line distance in meters
func (lox Loxodrome) DistanceTo(from, to LatLon) float64 {
	Δφ, _, Δλ, q := lox.deltas(from, to)
	return math.Sqrt(Δφ*Δφ+q*q*Δλ*Δλ) * R
}

// BearingTo returns the constant rhumb line bearing in degrees, in [0, 360)
func (lox Loxodrome) BearingTo(from, to LatLon) float64 {
	_, Δψ, Δλ, _ := lox.deltas(from, to)
	return wrap360(toDegrees(math.Atan2(Δλ, Δψ)))
}

func (lox Loxodrome) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	Δφ, Δψ, Δλ, q := lox.deltas(from, to)
	return math.Sqrt(Δφ*Δφ+q*q*Δλ*Δλ) * R, wrap360(toDegrees(math.Atan2(Δλ, Δψ)))
}
