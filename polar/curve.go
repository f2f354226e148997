package polar

import "math"

// Interpolate is the linear interpolation at value between (x0, y0) and (x1, y1).
// It returns y0 when x0 == x1.
func Interpolate(value, x0, y0, x1, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (value-x0)*(y1-y0)/(x1-x0)
}

// InterpolateSpeeds returns the boat speed for each wind angle of the table at wind
// speed tws. Below the first column the first column is returned, above the last
// column the last one: there is no extrapolation.
func (t Table) InterpolateSpeeds(tws float64) []float64 {
	n := len(t.Tws)
	if n == 0 {
		return nil
	}
	if tws <= t.Tws[0] {
		return t.column(0)
	}
	if tws >= t.Tws[n-1] {
		return t.column(n - 1)
	}

	// Tws[i] <= tws < Tws[i+1]
	i := 0
	for i < n-2 && t.Tws[i+1] <= tws {
		i++
	}

	x0, x1 := t.Tws[i], t.Tws[i+1]
	speeds := make([]float64, len(t.Speeds))
	for r, row := range t.Speeds {
		speeds[r] = Interpolate(tws, x0, row[i], x1, row[i+1])
	}
	return speeds
}

// Symmetrize mirrors a [0, 180] curve to a full turn: every point but the first and
// the last is appended again at 360 - twa, in reverse order.
func Symmetrize(twa, speeds []float64) ([]float64, []float64) {
	fullTwa := append(make([]float64, 0, 2*len(twa)), twa...)
	fullSpeeds := append(make([]float64, 0, 2*len(speeds)), speeds...)

	for i := len(twa) - 2; i >= 1; i-- {
		fullTwa = append(fullTwa, 360-twa[i])
		fullSpeeds = append(fullSpeeds, speeds[i])
	}

	return fullTwa, fullSpeeds
}

// MaxSpeed returns the highest value of speeds, or -Inf if empty
func MaxSpeed(speeds []float64) float64 {
	max := math.Inf(-1)
	for _, s := range speeds {
		if s > max {
			max = s
		}
	}
	return max
}

// Vmg is the best velocity made good found on a curve. Speed is the VMG itself,
// BoatSpeed the speed on the polar at that angle.
type Vmg struct {
	Angle     float64 `json:"angle"`
	Speed     float64 `json:"speed"`
	BoatSpeed float64 `json:"boatSpeed"`
}

// NotFound is returned when no angle of the curve is in the searched range.
// Zero is a valid VMG so it can't be used for that.
var NotFound = Vmg{Angle: -1, Speed: -1, BoatSpeed: -1}

func (v Vmg) Found() bool {
	return v != NotFound
}

func bestVmg(twa, speeds []float64, keep func(float64) bool, vmgOf func(float64) float64) Vmg {
	best := NotFound
	for i := range twa {
		if !keep(twa[i]) {
			continue
		}
		vmg := vmgOf(speeds[i] * math.Cos(twa[i]*math.Pi/180))
		if vmg > best.Speed {
			best = Vmg{Angle: twa[i], Speed: vmg, BoatSpeed: speeds[i]}
		}
	}
	return best
}

// BestVmg returns the best upwind VMG among the angles up to 90°. The first of
// equal VMGs wins.
func BestVmg(twa, speeds []float64) Vmg {
	return bestVmg(twa, speeds,
		func(a float64) bool { return a <= 90 },
		func(v float64) float64 { return v })
}

// BestVmgBack returns the best downwind VMG among the angles from 90°
func BestVmgBack(twa, speeds []float64) Vmg {
	return bestVmg(twa, speeds,
		func(a float64) bool { return a >= 90 },
		math.Abs)
}

// Curve is the polar at one wind speed, mirrored to a full turn
type Curve struct {
	Tws     float64   `json:"tws"`
	Twa     []float64 `json:"twa"`
	Speeds  []float64 `json:"speeds"`
	Max     float64   `json:"max"`
	Vmg     Vmg       `json:"vmg"`
	VmgBack Vmg       `json:"vmgBack"`
}

// Curve computes the full turn curve of the table at wind speed tws with its max
// speed and best VMGs
func (t Table) Curve(tws float64) (Curve, error) {
	if len(t.Twa) == 0 || len(t.Tws) == 0 {
		return Curve{}, ErrEmpty
	}

	speeds := t.InterpolateSpeeds(tws)
	fullTwa, fullSpeeds := Symmetrize(t.Twa, speeds)

	return Curve{
		Tws:     tws,
		Twa:     fullTwa,
		Speeds:  fullSpeeds,
		Max:     MaxSpeed(fullSpeeds),
		Vmg:     BestVmg(fullTwa, fullSpeeds),
		VmgBack: BestVmgBack(fullTwa, fullSpeeds),
	}, nil
}
