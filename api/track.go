package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/latlon"
	"github.com/a-bouts/nav-viewer/track"
)

// maxNMEASize limits the size of an uploaded NMEA log
const maxNMEASize = 16 << 20

func (s *server) gpx(w http.ResponseWriter, r *http.Request) {
	var t model.Track
	if !decode(w, r, &t) {
		return
	}
	if t.Name == "" {
		t.Name = "route"
	}

	fixes := track.FromRoute(t.Route, t.Start, time.Duration(t.Step)*time.Second)
	data, err := track.GPX(t.Name, fixes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.Name+`.gpx"`)
	w.Write(data)
}

func (s *server) nmea(w http.ResponseWriter, r *http.Request) {
	fixes, err := track.ParseNMEA(http.MaxBytesReader(w, r.Body, maxNMEASize))
	if errors.Is(err, track.ErrNoFix) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, model.Fixes{
		Count:    len(fixes),
		Distance: latlon.TrackDistance(track.Positions(fixes)),
		Fixes:    fixes,
	})
}
