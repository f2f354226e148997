package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/catalog"
	"github.com/a-bouts/nav-viewer/polar"
	"github.com/a-bouts/nav-viewer/wind"
)

func (s *server) listPolars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.polars.List(order(r)))
}

// loadPolar returns the named polar, parsed once per file version
func (s *server) loadPolar(name string) (polar.Table, error) {
	path, e, err := s.polars.Path(name)
	if err != nil {
		return polar.Table{}, err
	}

	key := fmt.Sprintf("%s@%d", name, e.ModTime.UnixNano())
	if t, ok := s.polarCache.Get(key); ok {
		return t, nil
	}

	t, err := polar.Load(path)
	if err != nil {
		return polar.Table{}, err
	}
	s.polarCache.Add(key, t)
	return t, nil
}

func (s *server) requestPolar(w http.ResponseWriter, r *http.Request) (polar.Table, bool) {
	t, err := s.loadPolar(mux.Vars(r)["name"])
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return t, false
	case err != nil:
		requestLogger(r, "polar").WithError(err).Error("Error loading polar")
		writeError(w, http.StatusUnprocessableEntity, err)
		return t, false
	}
	return t, true
}

func (s *server) getPolar(w http.ResponseWriter, r *http.Request) {
	t, ok := s.requestPolar(w, r)
	if !ok {
		return
	}

	m := t.Matrix()
	writeJSON(w, model.Polar{
		PolarName: t.Name,
		NLine:     len(m),
		NCol:      len(m[0]),
		Max:       t.Max(),
		Array:     m,
	})
}

func (s *server) polarCurve(w http.ResponseWriter, r *http.Request) {
	t, ok := s.requestPolar(w, r)
	if !ok {
		return
	}

	tws, err := floatParam(r, "tws")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	curve, err := t.Curve(tws)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	res := model.Curve{Curve: curve}

	if r.URL.Query().Get("wind") != "" {
		windDir, err := floatParam(r, "wind")
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res.Wind = &windDir
		res.Tacks = &model.Tacks{}
		if curve.Vmg.Found() {
			a, b := wind.Tacks(curve.Vmg.Angle, windDir)
			res.Tacks.Vmg = []float64{a, b}
		}
		if curve.VmgBack.Found() {
			a, b := wind.Tacks(curve.VmgBack.Angle, windDir)
			res.Tacks.VmgBack = []float64{a, b}
		}
	}

	writeJSON(w, res)
}

func (s *server) boatSpeed(w http.ResponseWriter, r *http.Request) {
	t, ok := s.requestPolar(w, r)
	if !ok {
		return
	}

	twa, err := floatParam(r, "twa")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tws, err := floatParam(r, "tws")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, model.BoatSpeed{Twa: twa, Tws: tws, Speed: t.BoatSpeed(twa, tws)})
}

func (s *server) checkPolar(w http.ResponseWriter, r *http.Request) {
	t, ok := s.requestPolar(w, r)
	if !ok {
		return
	}

	report := t.Check()
	if report == nil {
		report = []string{}
	}
	writeJSON(w, model.PolarCheck{PolarName: t.Name, Report: report})
}
