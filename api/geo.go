package api

import (
	"net/http"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/latlon"
)

func (s *server) greatCircle(w http.ResponseWriter, r *http.Request) {
	var gc model.GreatCircle
	if !decode(w, r, &gc) {
		return
	}
	if gc.N <= 0 {
		gc.N = 20
	}

	distance, bearing := latlon.Haversine{}.DistanceAndBearingTo(gc.From, gc.To)

	writeJSON(w, model.GreatCirclePath{
		Path:     latlon.GreatCirclePath(gc.From, gc.To, gc.N),
		Distance: distance / latlon.NauticalMile,
		Bearing:  bearing,
	})
}

func (s *server) bearing(w http.ResponseWriter, r *http.Request) {
	var b model.Bearing
	if !decode(w, r, &b) {
		return
	}

	distance, bearing := latlon.Haversine{}.DistanceAndBearingTo(b.From, b.To)
	loxoDistance, loxoBearing := latlon.Loxodrome{}.DistanceAndBearingTo(b.From, b.To)

	writeJSON(w, model.Course{
		Bearing:      bearing,
		Distance:     distance / latlon.NauticalMile,
		LoxoBearing:  loxoBearing,
		LoxoDistance: loxoDistance / latlon.NauticalMile,
	})
}

func (s *server) dms(w http.ResponseWriter, r *http.Request) {
	var p model.Positions
	if !decode(w, r, &p) {
		return
	}

	res := model.DMS{Points: make([]string, len(p.Points))}
	for i, point := range p.Points {
		res.Points[i] = latlon.ToDMS(point)
	}
	writeJSON(w, res)
}
