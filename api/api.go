package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/catalog"
	"github.com/a-bouts/nav-viewer/land"
	"github.com/a-bouts/nav-viewer/playback"
	"github.com/a-bouts/nav-viewer/polar"
	"github.com/a-bouts/nav-viewer/wind"
)

// Notifier sends a text message to the maintainers
type Notifier interface {
	Send(message string) error
}

type Config struct {
	CpuProfile bool
	Polars     *catalog.Catalog
	Gribs      *catalog.Catalog
	Notifier   Notifier
	// Land checks the race plans when set
	Land *land.Land
	// Mqtt also receives the playback frames when set
	Mqtt      playback.Sink
	CacheSize int
	// Interval between two playback frames
	Interval time.Duration
}

type server struct {
	cpuprofile    bool
	profileLock   sync.Mutex
	polars        *catalog.Catalog
	gribs         *catalog.Catalog
	notifier      Notifier
	land          *land.Land
	mqtt          playback.Sink
	interval      time.Duration
	polarCache    *lru.Cache[string, polar.Table]
	infoCache     *lru.Cache[string, wind.Info]
	forecastCache *lru.Cache[string, wind.Forecast]
}

func InitServer(c Config) (*mux.Router, error) {

	if c.CacheSize <= 0 {
		c.CacheSize = 32
	}
	if c.Interval <= 0 {
		c.Interval = 500 * time.Millisecond
	}

	polarCache, err := lru.New[string, polar.Table](c.CacheSize)
	if err != nil {
		return nil, err
	}
	infoCache, err := lru.New[string, wind.Info](c.CacheSize)
	if err != nil {
		return nil, err
	}
	// forecasts hold whole wind grids
	forecastCache, err := lru.New[string, wind.Forecast](4)
	if err != nil {
		return nil, err
	}

	s := &server{
		cpuprofile:    c.CpuProfile,
		polars:        c.Polars,
		gribs:         c.Gribs,
		notifier:      c.Notifier,
		land:          c.Land,
		mqtt:          c.Mqtt,
		interval:      c.Interval,
		polarCache:    polarCache,
		infoCache:     infoCache,
		forecastCache: forecastCache,
	}

	router := mux.NewRouter().StrictSlash(true)

	apiV1 := router.PathPrefix("/viewer/api/v1").Subrouter()
	apiV1.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	apiV1.HandleFunc("/greatcircle", s.greatCircle).Methods(http.MethodPost)
	apiV1.HandleFunc("/bearing", s.bearing).Methods(http.MethodPost)
	apiV1.HandleFunc("/dms", s.dms).Methods(http.MethodPost)

	apiV1.HandleFunc("/polars", s.listPolars).Methods(http.MethodGet)
	apiV1.HandleFunc("/polar/{name}", s.getPolar).Methods(http.MethodGet)
	apiV1.HandleFunc("/polar/{name}/curve", s.polarCurve).Methods(http.MethodGet)
	apiV1.HandleFunc("/polar/{name}/speed", s.boatSpeed).Methods(http.MethodGet)
	apiV1.HandleFunc("/polar/{name}/check", s.checkPolar).Methods(http.MethodGet)

	apiV1.HandleFunc("/gribs", s.listGribs).Methods(http.MethodGet)
	apiV1.HandleFunc("/grib/{name}", s.gribInfo).Methods(http.MethodGet)
	apiV1.HandleFunc("/grib/{name}/wind", s.wind).Methods(http.MethodGet)

	apiV1.HandleFunc("/race/plan", s.plan).Methods(http.MethodPost)

	apiV1.HandleFunc("/report/route/{boat}", s.routeReport).Methods(http.MethodPost)
	apiV1.HandleFunc("/report/besttime", s.bestTimeReport).Methods(http.MethodPost)
	apiV1.HandleFunc("/report/competitors", s.competitorsReport).Methods(http.MethodPost)

	apiV1.HandleFunc("/track/gpx", s.gpx).Methods(http.MethodPost)
	apiV1.HandleFunc("/track/nmea", s.nmea).Methods(http.MethodPost)
	apiV1.HandleFunc("/playback", s.playback).Methods(http.MethodGet)

	apiV1.HandleFunc("/feedback", s.feedback).Methods(http.MethodPost)

	return router, nil
}

// Handler adds CORS headers and an access log in combined format to the router
func Handler(router *mux.Router, accessLog io.Writer) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.CombinedLoggingHandler(accessLog, cors(router))
}

// profile records a cpu profile of the request when enabled and no other
// profile is running. The returned func stops it.
func (s *server) profile() func() {
	if !s.cpuprofile || !s.profileLock.TryLock() {
		return func() {}
	}
	p := profile.Start(profile.CPUProfile, profile.NoShutdownHook)
	return func() {
		p.Stop()
		s.profileLock.Unlock()
	}
}

func requestLogger(r *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(r); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Error{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return false
	}
	return true
}

var errMissing = errors.New("missing parameter")

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("%w: %s", errMissing, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return f, nil
}

func order(r *http.Request) catalog.Order {
	if r.URL.Query().Get("sort") == "time" {
		return catalog.ByTime
	}
	return catalog.ByName
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	writeJSON(w, health{Status: "Ok"})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
