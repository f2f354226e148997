package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/report"
)

func reportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrUnknownBoat):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, report.ErrNoData):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *server) routeReport(w http.ResponseWriter, r *http.Request) {
	var routes report.Routes
	if !decode(w, r, &routes) {
		return
	}

	boat := mux.Vars(r)["boat"]
	route, err := routes.Boat(boat)
	if err != nil {
		reportError(w, err)
		return
	}

	writeJSON(w, route.Summary(boat))
}

func (s *server) bestTimeReport(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var b report.BestTime
	if !decode(w, r, &b) {
		return
	}

	h, err := b.Histogram(start)
	if err != nil {
		reportError(w, err)
		return
	}
	writeJSON(w, h)
}

func (s *server) competitorsReport(w http.ResponseWriter, r *http.Request) {
	var c report.Competitors
	if !decode(w, r, &c) {
		return
	}

	rows, err := c.Rows()
	if err != nil {
		reportError(w, err)
		return
	}

	writeJSON(w, model.Competitors{
		NComp:        c.NComp,
		StartTimeStr: c.StartTimeStr,
		IsocTimeStep: report.ConvertToHHMM(float64(c.IsocTimeStep)),
		Polar:        c.Polar,
		Rows:         rows,
	})
}
