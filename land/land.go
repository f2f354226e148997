package land

import (
	"fmt"
	"math"
	"os"

	"github.com/a-bouts/nav-viewer/latlon"
	log "github.com/sirupsen/logrus"
)

// Resolution of the land mask files: 43200 columns around the world
const Resolution = 360.0 / 43200.0

// Land contains one bit per cell, 1 if land and 0 if sea, row by row from the south
// pole and from 180°W
type Land struct {
	lat0 float64
	lon0 float64
	lonN float64
	step float64
	rows int
	cols int
	data []byte
}

// New builds a world mask of step degrees from its bits
func New(step float64, data []byte) (*Land, error) {
	l := &Land{
		lat0: -90.0,
		lon0: -180.0,
		lonN: 180.0 - step,
		step: step,
		data: data,
	}
	l.rows = int(math.Round(180/step)) + 1
	l.cols = int(math.Round(360 / step))
	if len(data)*8 < l.rows*l.cols {
		return nil, fmt.Errorf("land: %d bytes for a %dx%d mask", len(data), l.rows, l.cols)
	}
	return l, nil
}

// Load reads a land mask file at the default resolution
func Load(file string) (*Land, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return nil, err
	}
	return New(Resolution, b)
}

// IsLand check if location is land or sea
func (l Land) IsLand(p latlon.LatLon) bool {
	lon := math.Mod(p.Lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	lon -= 180

	i := int(math.Round(p.Lat / l.step))
	j := int(math.Round(lon / l.step))

	i0 := int(math.Round(l.lat0 / l.step))
	j0 := int(math.Round(l.lon0 / l.step))
	jN := int(math.Round(l.lonN / l.step))

	di := i - i0
	if di < 0 || di >= l.rows {
		return false
	}
	// 180°E is 180°W
	if j > jN {
		j = j0
	}
	dj := j - j0
	nj := jN - j0 + 1

	p0 := di*nj + dj

	pB := p0 / 8
	pb := uint(p0 % 8)

	return ((l.data[pB] >> (7 - pb)) & 0x01) == 0x01
}

// OnLand returns the indexes of the points on land
func (l Land) OnLand(points []latlon.LatLon) []int {
	var indexes []int
	for i, p := range points {
		if l.IsLand(p) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
