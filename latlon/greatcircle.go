package latlon

import (
	"math"

	"github.com/golang/geo/r3"
)

func unitVector(φ, λ float64) r3.Vector {
	return r3.Vector{
		X: math.Cos(φ) * math.Cos(λ),
		Y: math.Cos(φ) * math.Sin(λ),
		Z: math.Sin(φ),
	}
}

// GreatCirclePath returns n+1 points along the minor arc from `from` to `to`,
// evenly spaced by central angle. n lower than 1 is handled as 1.
//
// The slerp weights sin((1-f)δ) and sin(fδ) are not divided by sin δ: the common
// factor only scales the cartesian vector, which atan2 ignores. Identical
// endpoints give n+1 copies of from. Antipodal endpoints have no defined path.
func GreatCirclePath(from, to LatLon, n int) []LatLon {
	if n < 1 {
		n = 1
	}

	path := make([]LatLon, 0, n+1)

	φ1 := toRadians(from.Lat)
	λ1 := toRadians(from.Lon)
	φ2 := toRadians(to.Lat)
	λ2 := toRadians(to.Lon)

	cosδ := math.Sin(φ1)*math.Sin(φ2) + math.Cos(φ1)*math.Cos(φ2)*math.Cos(λ2-λ1)
	// rounding can push cosδ slightly above 1 for identical points
	δ := math.Acos(math.Max(-1, math.Min(1, cosδ)))

	if δ == 0 {
		for i := 0; i <= n; i++ {
			path = append(path, from)
		}
		return path
	}

	v1 := unitVector(φ1, λ1)
	v2 := unitVector(φ2, λ2)

	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		a := math.Sin((1 - f) * δ)
		b := math.Sin(f * δ)

		v := v1.Mul(a).Add(v2.Mul(b))

		φ := math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y))
		λ := math.Atan2(v.Y, v.X)

		path = append(path, LatLon{Lat: toDegrees(φ), Lon: toDegrees(λ)})
	}
	return path
}
