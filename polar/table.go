package polar

import (
	"errors"
	"math"
)

// ErrEmpty is returned when a polar has no data row or no wind speed column
var ErrEmpty = errors.New("polar: empty table")

// Table is a polar diagram: boat speed by true wind angle (rows) and true wind
// speed (columns). Twa is sorted ascending in [0, 180], Tws ascending.
type Table struct {
	Name   string      `json:"name"`
	Tws    []float64   `json:"tws"`
	Twa    []float64   `json:"twa"`
	Speeds [][]float64 `json:"speeds"`
}

func (t Table) column(j int) []float64 {
	col := make([]float64, len(t.Speeds))
	for i, row := range t.Speeds {
		col[i] = row[j]
	}
	return col
}

// Max returns the highest boat speed of the table
func (t Table) Max() float64 {
	max := 0.0
	for _, row := range t.Speeds {
		for _, s := range row {
			if s > max {
				max = s
			}
		}
	}
	return max
}

// Matrix returns the table as rows, the first row holding the wind speeds and the
// first column the wind angles. The corner cell is -1.
func (t Table) Matrix() [][]float64 {
	m := make([][]float64, 0, len(t.Twa)+1)
	header := append([]float64{-1}, t.Tws...)
	m = append(m, header)
	for i, twa := range t.Twa {
		m = append(m, append([]float64{twa}, t.Speeds[i]...))
	}
	return m
}

// fold returns the angle off the wind whatever the tack: 315 is 45 on the other tack
func fold(twa float64) float64 {
	a := math.Mod(math.Abs(twa), 360)
	if a > 180 {
		a = 360 - a
	}
	return a
}

func interpolationIndex(values []float64, value float64) (int, int, float64) {

	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			return i - 1, 0, 1
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 0
}

// BoatSpeed returns the boat speed for a wind angle in degrees (any sign, any turn)
// and a wind speed, interpolated between the four surrounding table cells.
// Values outside the table are clamped to its borders.
func (t Table) BoatSpeed(twa float64, tws float64) float64 {
	if len(t.Twa) == 0 || len(t.Tws) == 0 {
		return math.NaN()
	}

	a := fold(twa)

	twsIndex0, twsIndex1, twsFactor := interpolationIndex(t.Tws, tws)
	twaIndex0, twaIndex1, twaFactor := interpolationIndex(t.Twa, a)

	ti0 := t.Speeds[twaIndex0]
	ti1 := t.Speeds[twaIndex1]

	return (ti0[twsIndex0]*twsFactor+ti0[twsIndex1]*(1-twsFactor))*twaFactor +
		(ti1[twsIndex0]*twsFactor+ti1[twsIndex1]*(1-twsFactor))*(1-twaFactor)
}
