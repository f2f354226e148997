package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/race"
)

func (s *server) plan(w http.ResponseWriter, r *http.Request) {
	var rc race.Race
	if !decode(w, r, &rc) {
		return
	}

	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid n: %q", v))
			return
		}
	}

	if err := rc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	defer s.profile()()

	res := model.Plan{
		Name:  rc.Name,
		Legs:  rc.Legs(),
		Paths: rc.GreatCircles(n),
	}
	res.Bounds.SouthWest, res.Bounds.NorthEast, _ = rc.Bounds()
	for _, leg := range res.Legs {
		res.Ortho += leg.Ortho
		res.Loxo += leg.Loxo
	}

	if s.land != nil {
		res.WaypointsOnLand = s.land.OnLand(rc.Waypoints)
		crossing := false
		for _, path := range res.Paths {
			onLand := s.land.OnLand(path)
			crossing = crossing || len(onLand) > 0
			res.PathsOnLand = append(res.PathsOnLand, onLand)
		}
		if !crossing {
			res.PathsOnLand = nil
		}
	}

	requestLogger(r, "plan").Infof("Plan '%s' with %d legs, %.1f NM", rc.Name, len(res.Legs), res.Ortho)

	writeJSON(w, res)
}
