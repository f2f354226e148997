package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/catalog"
	"github.com/a-bouts/nav-viewer/wind"
)

func (s *server) listGribs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.gribs.List(order(r)))
}

func (s *server) gribPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	name := mux.Vars(r)["name"]
	path, e, err := s.gribs.Path(name)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return "", "", false
	}
	return path, fmt.Sprintf("%s@%d", name, e.ModTime.UnixNano()), true
}

func (s *server) gribInfo(w http.ResponseWriter, r *http.Request) {
	path, key, ok := s.gribPath(w, r)
	if !ok {
		return
	}

	if info, ok := s.infoCache.Get(key); ok {
		writeJSON(w, info)
		return
	}

	defer s.profile()()

	start := time.Now()
	info, err := wind.Inspect(path)
	if err != nil {
		requestLogger(r, "grib").WithError(err).Errorf("Error reading grib '%s'", path)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	requestLogger(r, "grib").Infof("Inspect '%s' took %s", info.FileName, time.Since(start))

	s.infoCache.Add(key, info)
	writeJSON(w, info)
}

func (s *server) wind(w http.ResponseWriter, r *http.Request) {
	path, key, ok := s.gribPath(w, r)
	if !ok {
		return
	}

	lat, err := floatParam(r, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	at := time.Now()
	if v := r.URL.Query().Get("time"); v != "" {
		if at, err = time.Parse(time.RFC3339, v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	forecast, ok := s.forecastCache.Get(key)
	if !ok {
		defer s.profile()()

		if forecast, err = wind.Load(path); err != nil {
			requestLogger(r, "wind").WithError(err).Errorf("Error loading winds of '%s'", path)
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.forecastCache.Add(key, forecast)
	}

	var res model.Wind
	res.Wind, res.Speed, err = forecast.At(at, lat, lon)
	if errors.Is(err, wind.ErrOutOfGrid) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	log.Infof("Wind %s (%f,%f) : %.1f° %.1f kt", mux.Vars(r)["name"], lat, lon, res.Wind, res.Speed)

	writeJSON(w, res)
}
