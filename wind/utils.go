package wind

import "math"

// norm360 maps an angle in degrees to [0, 360[
func norm360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Twa returns the true wind angle in ]-180, 180] for a heading and a wind direction
func Twa(heading, wind float64) float64 {
	twa := norm360(wind - heading)
	if twa > 180 {
		twa -= 360
	}
	return twa
}

// Heading returns the heading in [0, 360[ sailing at twa with a wind direction.
// Any turn of twa is accepted, 315 being 45 with the wind on the other side.
func Heading(twa, wind float64) float64 {
	return norm360(wind - twa)
}

// Tacks returns the two headings sailing at twa from a wind direction, wind on
// one side then on the other
func Tacks(twa, wind float64) (float64, float64) {
	return Heading(twa, wind), Heading(-twa, wind)
}
