package wind

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nilsmagnus/grib/griblib"
	log "github.com/sirupsen/logrus"
)

// MsToKnots converts meters per second to knots
const MsToKnots = 3600.0 / 1852.0

var (
	ErrNoWind    = errors.New("wind: no 10m wind in grib")
	ErrOutOfGrid = errors.New("wind: position out of grid")
)

// Wind is the 10 m wind of one forecast step, U and V in m/s on a regular grid.
// ΔLat is negative when the grid is scanned from north to south.
type Wind struct {
	Date time.Time
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

// Forecast holds the wind steps of a GRIB file sorted by date
type Forecast struct {
	File  string
	Winds []*Wind
}

func (w Wind) buildGrid(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(w.NLon)*w.ΔLon) >= 360

	nLon := w.NLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, w.NLat)

	p := 0
	for j := uint32(0); j < w.NLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < w.NLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][w.NLon] = grid[j][0]
		}
	}
	return grid
}

func isWind10m(message *griblib.Message) bool {
	product := message.Section4.ProductDefinitionTemplate
	return message.Section0.Discipline == 0 &&
		product.ParameterCategory == 2 &&
		(product.ParameterNumber == 2 || product.ParameterNumber == 3) &&
		product.FirstSurface.Type == 103 && product.FirstSurface.Value == 10
}

// Load reads the 10 m wind components of every forecast step of a GRIB2 file
func Load(path string) (Forecast, error) {
	log.Debugf("Load winds %s", path)

	messages, _, err := readMessages(path)
	if err != nil {
		return Forecast{}, err
	}

	steps := make(map[int]*Wind)
	for _, message := range messages {
		if !isWind10m(message) {
			continue
		}
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		product := message.Section4.ProductDefinitionTemplate
		h := forecastHours(int(product.TimeUnitIndicator), int(product.ForecastTime))

		w, found := steps[h]
		if !found {
			w = &Wind{
				Date: referenceTime(message).Add(time.Duration(h) * time.Hour),
				Lat0: float64(grid0.La1) / 1e6,
				Lon0: float64(grid0.Lo1) / 1e6,
				ΔLat: math.Abs(float64(grid0.Dj) / 1e6),
				ΔLon: math.Abs(float64(grid0.Di) / 1e6),
				NLat: uint32(grid0.Nj),
				NLon: uint32(grid0.Ni),
			}
			if grid0.La2 < grid0.La1 {
				w.ΔLat = -w.ΔLat
			}
			steps[h] = w
		}

		if len(message.Section7.Data) < int(w.NLat*w.NLon) {
			log.Warnf("Skip truncated wind message in '%s' at +%dh", path, h)
			continue
		}
		if product.ParameterNumber == 2 {
			w.U = w.buildGrid(message.Section7.Data)
		} else {
			w.V = w.buildGrid(message.Section7.Data)
		}
	}

	f := Forecast{File: path}
	for _, w := range steps {
		if w.U != nil && w.V != nil {
			f.Winds = append(f.Winds, w)
		}
	}
	if len(f.Winds) == 0 {
		return Forecast{}, fmt.Errorf("%s: %w", path, ErrNoWind)
	}
	sort.Slice(f.Winds, func(i, j int) bool { return f.Winds[i].Date.Before(f.Winds[j].Date) })

	return f, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinearInterpolate(x float64, y float64, g00 []float64, g10 []float64, g01 []float64, g11 []float64) (float64, float64) {

	rx := (1 - x)
	ry := (1 - y)

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// vectorToDegrees returns the direction the wind comes from
func vectorToDegrees(u float64, v float64, d float64) float64 {
	if d == 0 {
		return 0
	}
	velocityDir := math.Atan2(u/d, v/d)
	return math.Mod(velocityDir*180/math.Pi+180, 360)
}

func (w Wind) interpolate(lat float64, lon float64) (float64, float64, bool) {

	if len(w.U) == 0 || w.ΔLat == 0 || w.ΔLon == 0 {
		return 0, 0, false
	}

	i := (lat - w.Lat0) / w.ΔLat
	j := floorMod(lon-w.Lon0, 360.0) / w.ΔLon

	maxI := uint32(len(w.U) - 1)
	maxJ := uint32(len(w.U[0]) - 1)
	if math.IsNaN(i) || math.IsNaN(j) || i < 0 || i > float64(maxI) || j < 0 || j > float64(maxJ) {
		return 0, 0, false
	}

	fi := uint32(i)
	fj := uint32(j)
	fi1 := min(fi+1, maxI)
	fj1 := min(fj+1, maxJ)

	u, v := bilinearInterpolate(j-float64(fj), i-float64(fi),
		[]float64{w.U[fi][fj], w.V[fi][fj]},
		[]float64{w.U[fi][fj1], w.V[fi][fj1]},
		[]float64{w.U[fi1][fj], w.V[fi1][fj]},
		[]float64{w.U[fi1][fj1], w.V[fi1][fj1]})

	return u, v, true
}

// At returns the true wind direction in degrees and its speed in knots at a date
// and a position, interpolated in time between the two surrounding steps.
// Before the first step and after the last one the nearest step is used.
func (f Forecast) At(m time.Time, lat float64, lon float64) (float64, float64, error) {
	if len(f.Winds) == 0 {
		return 0, 0, ErrNoWind
	}

	i := sort.Search(len(f.Winds), func(i int) bool { return f.Winds[i].Date.After(m) })

	var u, v float64
	var ok bool
	switch {
	case i == 0:
		u, v, ok = f.Winds[0].interpolate(lat, lon)
	case i == len(f.Winds):
		u, v, ok = f.Winds[i-1].interpolate(lat, lon)
	default:
		w1, w2 := f.Winds[i-1], f.Winds[i]
		h := m.Sub(w1.Date).Minutes() / w2.Date.Sub(w1.Date).Minutes()

		u1, v1, ok1 := w1.interpolate(lat, lon)
		u2, v2, ok2 := w2.interpolate(lat, lon)
		u = u2*h + u1*(1-h)
		v = v2*h + v1*(1-h)
		ok = ok1 && ok2
	}
	if !ok {
		return 0, 0, ErrOutOfGrid
	}

	d := math.Sqrt(u*u + v*v)
	return vectorToDegrees(u, v, d), d * MsToKnots, nil
}
