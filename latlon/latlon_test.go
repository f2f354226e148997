package latlon

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/s2"
)

func TestBearingTo(t *testing.T) {
	hav := Haversine{}

	tests := []struct {
		from, to LatLon
		want     float64
	}{
		{LatLon{Lat: 0, Lon: 0}, LatLon{Lat: 10, Lon: 0}, 0},
		{LatLon{Lat: 0, Lon: 0}, LatLon{Lat: 0, Lon: 10}, 90},
		{LatLon{Lat: 10, Lon: 0}, LatLon{Lat: 0, Lon: 0}, 180},
		{LatLon{Lat: 0, Lon: 10}, LatLon{Lat: 0, Lon: 0}, 270},
		{LatLon{Lat: 0, Lon: 175}, LatLon{Lat: 0, Lon: -175}, 90},
		{LatLon{Lat: -5, Lon: -5}, LatLon{Lat: 5, Lon: 5}, 45},
	}

	for _, tt := range tests {
		d := hav.BearingTo(tt.from, tt.to)
		if math.Round(d) != tt.want {
			t.Errorf("{%f,%f}.bearingTo({%f,%f}) = %f; want %f", tt.from.Lat, tt.from.Lon, tt.to.Lat, tt.to.Lon, d, tt.want)
		}
	}
}

func TestBearingSamePoint(t *testing.T) {
	p := LatLon{Lat: 47.2, Lon: -2.5}
	if d := Bearing(p, p); d != 0 {
		t.Errorf("Bearing(p, p) = %f; want 0", d)
	}
}

func TestBearingRange(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -180.0; lon <= 180; lon += 30 {
			from := LatLon{Lat: lat, Lon: lon}
			for _, to := range []LatLon{{Lat: 0, Lon: 0}, {Lat: -lat, Lon: lon + 45}, {Lat: lat + 1, Lon: -lon}} {
				d := Bearing(from, to)
				if d < 0 || d >= 360 {
					t.Errorf("Bearing(%v, %v) = %f; want in [0, 360)", from, to, d)
				}
			}
		}
	}
}

func TestDistanceTo(t *testing.T) {
	d := Haversine{}.DistanceTo(LatLon{Lat: 0, Lon: 0}, LatLon{Lat: 0, Lon: 1})
	if math.Abs(d-111194.93) > 1 {
		t.Errorf("DistanceTo one degree = %f; want 111194.93", d)
	}
}

func TestDestination(t *testing.T) {
	hav := Haversine{}
	from := LatLon{Lat: 46.5, Lon: -3}

	to := hav.Destination(from, 225, 100000)
	d, b := hav.DistanceAndBearingTo(from, to)
	if math.Abs(d-100000) > 0.01 {
		t.Errorf("distance to destination = %f; want 100000", d)
	}
	if math.Abs(b-225) > 1e-6 {
		t.Errorf("bearing to destination = %f; want 225", b)
	}
}

func TestGreatCirclePathSamePoint(t *testing.T) {
	p := LatLon{Lat: 47, Lon: -2}
	path := GreatCirclePath(p, p, 10)
	if len(path) != 11 {
		t.Fatalf("len(GreatCirclePath(p, p, 10)) = %d; want 11", len(path))
	}
	for i, q := range path {
		if q != p {
			t.Errorf("GreatCirclePath(p, p, 10)[%d] = %v; want %v", i, q, p)
		}
	}
}

func TestGreatCirclePathEndpoints(t *testing.T) {
	pairs := [][2]LatLon{
		{{Lat: 47, Lon: -2}, {Lat: 46, Lon: -5}},
		{{Lat: 40.43, Lon: -73.9}, {Lat: 49.5, Lon: -5.1}},
		{{Lat: -33.9, Lon: 18.4}, {Lat: -43.5, Lon: 146.9}},
		{{Lat: 0, Lon: 170}, {Lat: 10, Lon: -170}},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		path := GreatCirclePath(a, b, 100)
		if len(path) != 101 {
			t.Fatalf("len(GreatCirclePath) = %d; want 101", len(path))
		}
		if math.Abs(path[0].Lat-a.Lat) > 1e-9 || math.Abs(path[0].Lon-a.Lon) > 1e-9 {
			t.Errorf("GreatCirclePath(%v, %v)[0] = %v; want %v", a, b, path[0], a)
		}
		if math.Abs(path[100].Lat-b.Lat) > 1e-9 || math.Abs(path[100].Lon-b.Lon) > 1e-9 {
			t.Errorf("GreatCirclePath(%v, %v)[100] = %v; want %v", a, b, path[100], b)
		}
	}
}

// the unnormalized weights must match a true slerp
func TestGreatCirclePathMatchesSlerp(t *testing.T) {
	a := LatLon{Lat: 40.43, Lon: -73.9}
	b := LatLon{Lat: 49.5, Lon: -5.1}
	n := 20

	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lon))

	for i, p := range GreatCirclePath(a, b, n) {
		ref := s2.LatLngFromPoint(s2.Interpolate(float64(i)/float64(n), pa, pb))
		if math.Abs(p.Lat-ref.Lat.Degrees()) > 1e-9 || math.Abs(p.Lon-ref.Lng.Degrees()) > 1e-9 {
			t.Errorf("GreatCirclePath[%d] = %v; want (%f, %f)", i, p, ref.Lat.Degrees(), ref.Lng.Degrees())
		}
	}
}

func TestGreatCirclePathNaN(t *testing.T) {
	path := GreatCirclePath(LatLon{Lat: math.NaN(), Lon: 0}, LatLon{Lat: 1, Lon: 1}, 2)
	if len(path) != 3 {
		t.Fatalf("len(GreatCirclePath) = %d; want 3", len(path))
	}
	if !math.IsNaN(path[1].Lat) {
		t.Errorf("GreatCirclePath(NaN)[1] = %v; want NaN", path[1])
	}
}

func TestLoxodrome(t *testing.T) {
	lox := Loxodrome{}
	from := LatLon{Lat: 10, Lon: 0}
	to := LatLon{Lat: 10, Lon: 5}

	d, b := lox.DistanceAndBearingTo(from, to)
	if math.Round(b) != 90 {
		t.Errorf("Loxodrome bearing east = %f; want 90", b)
	}
	want := math.Cos(toRadians(10)) * toRadians(5) * R
	if math.Abs(d-want) > 0.001 {
		t.Errorf("Loxodrome distance east = %f; want %f", d, want)
	}

	if b := lox.BearingTo(LatLon{Lat: 0, Lon: 175}, LatLon{Lat: 0, Lon: -175}); math.Round(b) != 90 {
		t.Errorf("Loxodrome bearing across antimeridian = %f; want 90", b)
	}
}

func TestToDMS(t *testing.T) {
	s := ToDMS(LatLon{Lat: 47.515625, Lon: -2.25})
	if s != "47°30'56\"N, 02°15'00\"W" {
		t.Errorf("ToDMS = %s; want 47°30'56\"N, 02°15'00\"W", s)
	}

	s = ToDMS(LatLon{})
	if s != "00°00'00\"N, 00°00'00\"E" {
		t.Errorf("ToDMS(0, 0) = %s", s)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var points []LatLon
	err := json.Unmarshal([]byte(`[[47, -2], {"lat": 46, "lon": -5}]`), &points)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[0] != (LatLon{Lat: 47, Lon: -2}) || points[1] != (LatLon{Lat: 46, Lon: -5}) {
		t.Errorf("Unmarshal = %v", points)
	}

	var p LatLon
	if err := json.Unmarshal([]byte(`[1, 2, 3600]`), &p); err != nil || p != (LatLon{Lat: 1, Lon: 2}) {
		t.Errorf("Unmarshal([1, 2, 3600]) = %v, %v; want (1, 2)", p, err)
	}
	if err := json.Unmarshal([]byte(`[1]`), &p); err == nil {
		t.Errorf("Unmarshal([1]) should fail")
	}
}

func TestFindBounds(t *testing.T) {
	sw, ne, ok := FindBounds([]LatLon{{Lat: 47.2, Lon: -2.4}, {Lat: 0, Lon: 0}, {Lat: 45.7, Lon: -5.1}})
	if !ok {
		t.Fatal("FindBounds should succeed with 3 points")
	}
	if sw != (LatLon{Lat: 45, Lon: -6}) || ne != (LatLon{Lat: 48, Lon: -2}) {
		t.Errorf("FindBounds = %v %v; want (45,-6) (48,-2)", sw, ne)
	}

	if _, _, ok := FindBounds([]LatLon{{Lat: 1, Lon: 1}}); ok {
		t.Errorf("FindBounds with one point should fail")
	}
}

func TestHeadingAt(t *testing.T) {
	track := []LatLon{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}, {Lat: 1, Lon: 1}}

	if h := HeadingAt(track, 0); math.Round(h) != 0 {
		t.Errorf("HeadingAt(0) = %f; want 0", h)
	}
	if h := HeadingAt(track, 1); math.Round(h) != 90 {
		t.Errorf("HeadingAt(1) = %f; want 90", h)
	}
	// last point keeps the heading of the last leg
	if h := HeadingAt(track, 2); math.Round(h) != 90 {
		t.Errorf("HeadingAt(2) = %f; want 90", h)
	}
	if h := HeadingAt(track[:1], 0); h != 0 {
		t.Errorf("HeadingAt on single point = %f; want 0", h)
	}
}

func TestTrackDistance(t *testing.T) {
	d := TrackDistance([]LatLon{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}, {Lat: 2, Lon: 0}})
	if math.Abs(d-120.08) > 0.01 {
		t.Errorf("TrackDistance = %f; want 120.08", d)
	}
}
