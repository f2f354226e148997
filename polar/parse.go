package polar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// MaxSize is the maximum number of rows and of columns of a polar file
const MaxSize = 128

const separators = ";\t"

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitLine(line string) []string {
	seps := separators
	// plain csv: only possible when decimals use a dot
	if !strings.ContainsAny(line, separators) {
		seps = ","
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

// Parse reads a polar in csv format. The first line holds the wind speeds, its
// first cell is ignored. Each following line holds a wind angle then the boat
// speeds. Cells are separated by ';' or tabs, or by ',' when there is neither.
// Decimal commas are accepted. Lines starting with '#', lines without separator and
// lines with less than three values are ignored.
func Parse(r io.Reader) (Table, error) {
	var rows [][]float64
	nCol := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.ContainsAny(line, separators+",") {
			continue
		}

		var row []float64
		for _, token := range splitLine(line) {
			if v, ok := parseNumber(token); ok {
				row = append(row, v)
			}
			if len(rows) == 0 && len(row) == 0 {
				// header label
				row = append(row, -1)
			}
		}
		if len(row) <= 2 {
			continue
		}
		if len(row) >= MaxSize {
			return Table{}, fmt.Errorf("polar: max number of columns: %d", MaxSize)
		}
		rows = append(rows, row)
		if len(rows) >= MaxSize {
			return Table{}, fmt.Errorf("polar: max number of lines: %d", MaxSize)
		}
		if len(rows) == 1 {
			nCol = len(row)
		}
	}
	if err := scanner.Err(); err != nil {
		return Table{}, fmt.Errorf("polar: reading: %w", err)
	}

	if len(rows) < 2 || nCol < 2 {
		return Table{}, ErrEmpty
	}

	t := Table{Tws: rows[0][1:nCol]}
	for _, row := range rows[1:] {
		speeds := make([]float64, nCol-1)
		// short rows are padded with zeros, long rows truncated
		copy(speeds, row[1:])
		t.Twa = append(t.Twa, row[0])
		t.Speeds = append(t.Speeds, speeds)
	}
	return t, nil
}

type jsonPolar struct {
	WindSpeeds []float64   `json:"wind_speeds"`
	WindAngles []float64   `json:"wind_angles"`
	BoatSpeeds [][]float64 `json:"boat_speeds"`
}

// ParseJSON reads a polar as {"wind_speeds": [], "wind_angles": [], "boat_speeds": [[]]}
// with one boat_speeds row per wind angle
func ParseJSON(r io.Reader) (Table, error) {
	var p jsonPolar
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Table{}, fmt.Errorf("polar: decoding json: %w", err)
	}
	if len(p.WindSpeeds) == 0 || len(p.WindAngles) == 0 {
		return Table{}, ErrEmpty
	}
	if len(p.BoatSpeeds) != len(p.WindAngles) {
		return Table{}, fmt.Errorf("polar: %d rows of speeds for %d wind angles", len(p.BoatSpeeds), len(p.WindAngles))
	}
	for i, row := range p.BoatSpeeds {
		if len(row) != len(p.WindSpeeds) {
			return Table{}, fmt.Errorf("polar: row %d has %d speeds for %d wind speeds", i, len(row), len(p.WindSpeeds))
		}
	}
	return Table{Tws: p.WindSpeeds, Twa: p.WindAngles, Speeds: p.BoatSpeeds}, nil
}

// Load reads a polar file, json when its extension is .json, csv otherwise
func Load(path string) (Table, error) {
	log.Debugf("Load polar %s", path)

	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	var t Table
	if strings.EqualFold(filepath.Ext(path), ".json") {
		t, err = ParseJSON(f)
	} else {
		t, err = Parse(f)
	}
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}
