package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-bouts/nav-viewer/latlon"
	nmea "github.com/adrianmo/go-nmea"
	log "github.com/sirupsen/logrus"
	"github.com/tkrajina/gpxgo/gpx"
)

// ErrNoFix is returned when a source holds no usable position
var ErrNoFix = errors.New("track: no fix")

// Fix is a timed position. Speed is in knots, Course in degrees.
type Fix struct {
	Time     time.Time     `json:"time"`
	Position latlon.LatLon `json:"position"`
	Speed    float64       `json:"speed"`
	Course   float64       `json:"course"`
}

func Positions(fixes []Fix) []latlon.LatLon {
	positions := make([]latlon.LatLon, len(fixes))
	for i, f := range fixes {
		positions[i] = f.Position
	}
	return positions
}

func rmcTime(m nmea.RMC) time.Time {
	return time.Date(2000+m.Date.YY, time.Month(m.Date.MM), m.Date.DD,
		m.Time.Hour, m.Time.Minute, m.Time.Second, m.Time.Millisecond*int(time.Millisecond), time.UTC)
}

// ParseNMEA reads the valid RMC sentences of a NMEA log. Other sentences, invalid
// fixes and corrupted lines are skipped.
func ParseNMEA(r io.Reader) ([]Fix, error) {
	var fixes []Fix

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			log.Debugf("Skip nmea line %q: %v", line, err)
			continue
		}
		if sentence.DataType() != nmea.TypeRMC {
			continue
		}

		m := sentence.(nmea.RMC)
		if m.Validity != "A" {
			continue
		}
		fixes = append(fixes, Fix{
			Time:     rmcTime(m),
			Position: latlon.LatLon{Lat: m.Latitude, Lon: m.Longitude},
			Speed:    m.Speed,
			Course:   m.Course,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("track: reading nmea: %w", err)
	}
	if len(fixes) == 0 {
		return nil, ErrNoFix
	}
	return fixes, nil
}

// FromRoute times a computed route: point i is reached at start + i * step. Speed and
// course are the ones of the leg leaving each point.
func FromRoute(route []latlon.LatLon, start time.Time, step time.Duration) []Fix {
	fixes := make([]Fix, len(route))
	for i, p := range route {
		fixes[i] = Fix{
			Time:     start.Add(time.Duration(i) * step),
			Position: p,
			Course:   latlon.HeadingAt(route, i),
		}
		if i < len(route)-1 && step > 0 {
			fixes[i].Speed = latlon.TrackDistance(route[i:i+2]) / step.Hours()
		} else if i > 0 {
			fixes[i].Speed = fixes[i-1].Speed
		}
	}
	return fixes
}

// GPX exports fixes as a GPX 1.1 document holding one track
func GPX(name string, fixes []Fix) ([]byte, error) {
	if len(fixes) == 0 {
		return nil, ErrNoFix
	}

	segment := gpx.GPXTrackSegment{}
	for _, f := range fixes {
		segment.Points = append(segment.Points, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  f.Position.Lat,
				Longitude: f.Position.Lon,
			},
			Timestamp: f.Time,
		})
	}

	g := gpx.GPX{
		Name:    name,
		Creator: "nav-viewer",
		Tracks: []gpx.GPXTrack{{
			Name:     name,
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}
	return g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}

// ParseGPX reads the points of every track of a GPX document
func ParseGPX(data []byte) ([]Fix, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("track: parsing gpx: %w", err)
	}

	var fixes []Fix
	for _, t := range g.Tracks {
		for _, segment := range t.Segments {
			for _, p := range segment.Points {
				fixes = append(fixes, Fix{
					Time:     p.Timestamp,
					Position: latlon.LatLon{Lat: p.Latitude, Lon: p.Longitude},
				})
			}
		}
	}
	if len(fixes) == 0 {
		return nil, ErrNoFix
	}
	return fixes, nil
}
