package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/catalog"
	"github.com/a-bouts/nav-viewer/land"
	"github.com/a-bouts/nav-viewer/playback"
	"github.com/a-bouts/nav-viewer/report"
	"github.com/a-bouts/nav-viewer/xmpp"
)

const testPolar = `TWA\TWS;10;20
0;0;0
45;6;8
90;8;10
180;5;7
`

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Send(message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeNotifier) {
	t.Helper()

	polarDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(polarDir, "test.csv"), []byte(testPolar), 0644); err != nil {
		t.Fatal(err)
	}
	polars := catalog.New(polarDir)
	if err := polars.Refresh(); err != nil {
		t.Fatal(err)
	}
	gribs := catalog.New(t.TempDir(), ".grb", ".grb2")
	if err := gribs.Refresh(); err != nil {
		t.Fatal(err)
	}

	notifier := &fakeNotifier{}
	router, err := InitServer(Config{
		Polars:   polars,
		Gribs:    gribs,
		Notifier: notifier,
		Interval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(Handler(router, io.Discard))
	t.Cleanup(server.Close)
	return server, notifier
}

func get(t *testing.T, server *httptest.Server, path string, v interface{}) int {
	t.Helper()
	res, err := http.Get(server.URL + "/viewer/api/v1" + path)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return res.StatusCode
}

func post(t *testing.T, server *httptest.Server, path string, body string, v interface{}) int {
	t.Helper()
	res, err := http.Post(server.URL+"/viewer/api/v1"+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return res.StatusCode
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	var health struct {
		Status string `json:"status"`
	}
	if status := get(t, server, "/healthz", &health); status != http.StatusOK || health.Status != "Ok" {
		t.Errorf("healthz = %d %+v", status, health)
	}
}

func TestCORS(t *testing.T) {
	server, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/viewer/api/v1/healthz", nil)
	req.Header.Set("Origin", "http://viewer.example.org")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if got := res.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("Access-Control-Allow-Origin is missing")
	}
}

func TestGeo(t *testing.T) {
	server, _ := newTestServer(t)

	var gc model.GreatCirclePath
	status := post(t, server, "/greatcircle", `{"from": [47, -3], "to": {"lat": 40, "lon": -30}, "n": 4}`, &gc)
	if status != http.StatusOK || len(gc.Path) != 5 {
		t.Fatalf("greatcircle = %d, %d points; want 200, 5 points", status, len(gc.Path))
	}
	if gc.Path[0].Lat != 47 || math.Abs(gc.Path[4].Lon+30) > 1e-9 {
		t.Errorf("greatcircle path = %v", gc.Path)
	}

	var c model.Course
	if status := post(t, server, "/bearing", `{"from": [0, 0], "to": [0, 1]}`, &c); status != http.StatusOK {
		t.Fatalf("bearing = %d", status)
	}
	if math.Round(c.Bearing) != 90 || math.Round(c.LoxoBearing) != 90 || math.Abs(c.Distance-60.04) > 0.01 {
		t.Errorf("bearing = %+v", c)
	}

	var dms model.DMS
	if status := post(t, server, "/dms", `{"points": [[47.5, -2.25]]}`, &dms); status != http.StatusOK {
		t.Fatalf("dms = %d", status)
	}
	if len(dms.Points) != 1 || dms.Points[0] != `47°30'00"N, 02°15'00"W` {
		t.Errorf("dms = %v", dms.Points)
	}

	if status := post(t, server, "/bearing", `not json`, nil); status != http.StatusBadRequest {
		t.Errorf("bearing(not json) = %d; want 400", status)
	}
}

func TestPolars(t *testing.T) {
	server, _ := newTestServer(t)

	var entries []catalog.Entry
	if status := get(t, server, "/polars", &entries); status != http.StatusOK || len(entries) != 1 || entries[0].Name != "test.csv" {
		t.Fatalf("polars = %d %v", status, entries)
	}

	var p model.Polar
	if status := get(t, server, "/polar/test.csv", &p); status != http.StatusOK {
		t.Fatalf("polar = %d", status)
	}
	if p.PolarName != "test.csv" || p.NLine != 5 || p.NCol != 3 || p.Max != 10 {
		t.Errorf("polar = %+v", p)
	}
	if p.Array[0][0] != -1 || p.Array[2][2] != 8 {
		t.Errorf("polar array = %v", p.Array)
	}

	if status := get(t, server, "/polar/missing.csv", nil); status != http.StatusNotFound {
		t.Errorf("polar(missing) = %d; want 404", status)
	}

	var check model.PolarCheck
	if status := get(t, server, "/polar/test.csv/check", &check); status != http.StatusOK || len(check.Report) != 0 {
		t.Errorf("check = %d %v", status, check.Report)
	}

	var speed model.BoatSpeed
	if status := get(t, server, "/polar/test.csv/speed?twa=45&tws=20", &speed); status != http.StatusOK || speed.Speed != 8 {
		t.Errorf("speed = %d %+v; want 8", status, speed)
	}
	if status := get(t, server, "/polar/test.csv/speed?twa=45", nil); status != http.StatusBadRequest {
		t.Errorf("speed without tws = %d; want 400", status)
	}
}

func TestPolarCurve(t *testing.T) {
	server, _ := newTestServer(t)

	var c model.Curve
	if status := get(t, server, "/polar/test.csv/curve?tws=15&wind=0", &c); status != http.StatusOK {
		t.Fatalf("curve = %d", status)
	}

	if len(c.Twa) != 6 || len(c.Speeds) != 6 {
		t.Fatalf("curve = %v %v; want 6 points", c.Twa, c.Speeds)
	}
	if c.Max != 9 {
		t.Errorf("curve max = %f; want 9", c.Max)
	}
	if c.Vmg.Angle != 45 || math.Abs(c.Vmg.Speed-7*math.Sqrt2/2) > 1e-9 {
		t.Errorf("curve vmg = %+v", c.Vmg)
	}
	if c.VmgBack.Angle != 180 || math.Abs(c.VmgBack.Speed-6) > 1e-9 {
		t.Errorf("curve vmgBack = %+v", c.VmgBack)
	}
	if c.Wind == nil || c.Tacks == nil {
		t.Fatalf("curve with wind should give tacks")
	}
	if len(c.Tacks.Vmg) != 2 || c.Tacks.Vmg[0] != 315 || c.Tacks.Vmg[1] != 45 {
		t.Errorf("curve tacks vmg = %v; want [315 45]", c.Tacks.Vmg)
	}
	if len(c.Tacks.VmgBack) != 2 || c.Tacks.VmgBack[0] != 180 || c.Tacks.VmgBack[1] != 180 {
		t.Errorf("curve tacks vmgBack = %v; want [180 180]", c.Tacks.VmgBack)
	}

	if status := get(t, server, "/polar/test.csv/curve", nil); status != http.StatusBadRequest {
		t.Errorf("curve without tws = %d; want 400", status)
	}
	if status := get(t, server, "/polar/test.csv/curve?tws=abc", nil); status != http.StatusBadRequest {
		t.Errorf("curve tws=abc = %d; want 400", status)
	}
}

func TestGribs(t *testing.T) {
	server, _ := newTestServer(t)

	var entries []catalog.Entry
	if status := get(t, server, "/gribs", &entries); status != http.StatusOK || len(entries) != 0 {
		t.Errorf("gribs = %d %v", status, entries)
	}
	if status := get(t, server, "/grib/gfs.grb2", nil); status != http.StatusNotFound {
		t.Errorf("grib(missing) = %d; want 404", status)
	}
	if status := get(t, server, "/grib/gfs.grb2/wind?lat=47&lon=-3", nil); status != http.StatusNotFound {
		t.Errorf("wind(missing) = %d; want 404", status)
	}
}

func TestPlan(t *testing.T) {
	server, _ := newTestServer(t)

	var plan model.Plan
	body := `{"name": "test", "waypoints": [[47, -3], [40, -30], [18, -62]]}`
	if status := post(t, server, "/race/plan?n=10", body, &plan); status != http.StatusOK {
		t.Fatalf("plan = %d", status)
	}
	if len(plan.Legs) != 2 || len(plan.Paths) != 2 || len(plan.Paths[0]) != 11 {
		t.Errorf("plan = %d legs, %d paths", len(plan.Legs), len(plan.Paths))
	}
	if plan.Bounds.SouthWest.Lat != 18 || plan.Bounds.NorthEast.Lon != -3 {
		t.Errorf("plan bounds = %+v", plan.Bounds)
	}
	if plan.Ortho <= 0 || plan.Loxo < plan.Ortho {
		t.Errorf("plan distances = %f, %f", plan.Ortho, plan.Loxo)
	}

	if status := post(t, server, "/race/plan", `{"waypoints": [[47, -3]]}`, nil); status != http.StatusBadRequest {
		t.Errorf("plan with one waypoint = %d; want 400", status)
	}
	if status := post(t, server, "/race/plan?n=0", body, nil); status != http.StatusBadRequest {
		t.Errorf("plan n=0 = %d; want 400", status)
	}
}

func TestPlanOnLand(t *testing.T) {
	// everything is land
	mask, err := land.New(90, []byte{0xff, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	router, err := InitServer(Config{
		Polars: catalog.New(t.TempDir()),
		Gribs:  catalog.New(t.TempDir()),
		Land:   mask,
	})
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(Handler(router, io.Discard))
	defer server.Close()

	var plan model.Plan
	body := `{"name": "test", "waypoints": [[47, -3], [18, -62]]}`
	if status := post(t, server, "/race/plan?n=2", body, &plan); status != http.StatusOK {
		t.Fatalf("plan = %d", status)
	}
	if len(plan.WaypointsOnLand) != 2 {
		t.Errorf("waypoints on land = %v; want [0 1]", plan.WaypointsOnLand)
	}
	if len(plan.PathsOnLand) != 1 || len(plan.PathsOnLand[0]) != 3 {
		t.Errorf("paths on land = %v; want [[0 1 2]]", plan.PathsOnLand)
	}
}

func TestReports(t *testing.T) {
	server, _ := newTestServer(t)

	routes := `{"boat": {"heading": 245, "rank": 1, "duration": 1.5, "totDist": 12, "track": [[47, -3], [47, -2]], "polar": "test.csv", "grib": "gfs.grb2"}}`
	var summary report.RouteSummary
	if status := post(t, server, "/report/route/boat", routes, &summary); status != http.StatusOK {
		t.Fatalf("route report = %d", status)
	}
	if summary.Duration != "0j 01:30:00" || summary.Points != 2 {
		t.Errorf("route report = %+v", summary)
	}
	if status := post(t, server, "/report/route/ghost", routes, nil); status != http.StatusNotFound {
		t.Errorf("route report(ghost) = %d; want 404", status)
	}

	var h report.Histogram
	if status := post(t, server, "/report/besttime?start=1735732800", `{"count": 2, "tInterval": 3600, "array": [7200, 3600]}`, &h); status != http.StatusOK {
		t.Fatalf("besttime report = %d", status)
	}
	if len(h.Bars) != 2 || !h.Bars[1].Best || h.Bars[0].Hours != 2 {
		t.Errorf("besttime report = %+v", h)
	}
	if status := post(t, server, "/report/besttime", `{"array": [1]}`, nil); status != http.StatusBadRequest {
		t.Errorf("besttime without start = %d; want 400", status)
	}
	if status := post(t, server, "/report/besttime?start=0", `{"array": []}`, nil); status != http.StatusUnprocessableEntity {
		t.Errorf("besttime empty = %d; want 422", status)
	}

	var comp model.Competitors
	body := `{"nComp": 1, "startTimeStr": "2025-01-01 12:00", "isocTimeStep": 5400, "polar": "test.csv", "array": [{"name": "a", "lat": 47, "lon": -3, "distToMain": 1.5}]}`
	if status := post(t, server, "/report/competitors", body, &comp); status != http.StatusOK {
		t.Fatalf("competitors report = %d", status)
	}
	if comp.IsocTimeStep != "1:30" || len(comp.Rows) != 1 || comp.Rows[0].DistToMain != "1.50 NM" {
		t.Errorf("competitors report = %+v", comp)
	}
	if status := post(t, server, "/report/competitors", `{"nComp": 0}`, nil); status != http.StatusUnprocessableEntity {
		t.Errorf("competitors empty = %d; want 422", status)
	}
}

func TestTrack(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{"name": "my route", "route": [[47, -3], [47, -2]], "start": "2025-01-01T12:00:00Z", "step": 3600}`
	res, err := http.Post(server.URL+"/viewer/api/v1/track/gpx", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "application/gpx+xml" {
		t.Fatalf("gpx = %d %s", res.StatusCode, res.Header.Get("Content-Type"))
	}
	if !bytes.Contains(data, []byte("my route")) {
		t.Errorf("gpx should hold the route name")
	}

	if status := post(t, server, "/track/gpx", `{"route": []}`, nil); status != http.StatusBadRequest {
		t.Errorf("gpx of an empty route = %d; want 400", status)
	}

	nmea := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230325,003.1,W*60\n" +
		"$GPRMC,133519,A,4808.038,N,01131.000,E,010.0,000.0,230325,003.1,W*63\n"
	var fixes model.Fixes
	if status := post(t, server, "/track/nmea", nmea, &fixes); status != http.StatusOK {
		t.Fatalf("nmea = %d", status)
	}
	if fixes.Count != 2 || math.Abs(fixes.Distance-1) > 0.01 {
		t.Errorf("nmea = %d fixes, %f NM; want 2, 1", fixes.Count, fixes.Distance)
	}
	if status := post(t, server, "/track/nmea", "nothing", nil); status != http.StatusUnprocessableEntity {
		t.Errorf("nmea(nothing) = %d; want 422", status)
	}
}

func TestFeedback(t *testing.T) {
	server, notifier := newTestServer(t)

	if status := post(t, server, "/feedback", `{"from": "skipper", "text": "nice"}`, nil); status != http.StatusAccepted {
		t.Fatalf("feedback = %d; want 202", status)
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "skipper") {
		t.Errorf("notifier messages = %v", notifier.messages)
	}

	if status := post(t, server, "/feedback", `{"from": "skipper"}`, nil); status != http.StatusBadRequest {
		t.Errorf("empty feedback = %d; want 400", status)
	}

	notifier.err = xmpp.ErrNotConfigured
	if status := post(t, server, "/feedback", `{"text": "nice"}`, nil); status != http.StatusServiceUnavailable {
		t.Errorf("feedback unconfigured = %d; want 503", status)
	}
	notifier.err = errors.New("connection refused")
	if status := post(t, server, "/feedback", `{"text": "nice"}`, nil); status != http.StatusBadGateway {
		t.Errorf("feedback failing = %d; want 502", status)
	}
}

func TestPlayback(t *testing.T) {
	server, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/viewer/api/v1/playback"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	send := func(cmd model.PlaybackCommand) {
		if err := conn.WriteJSON(cmd); err != nil {
			t.Fatal(err)
		}
	}
	read := func() playback.Frame {
		var f playback.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatal(err)
		}
		return f
	}

	var e model.Error
	send(model.PlaybackCommand{Action: "move", N: 1})
	if err := conn.ReadJSON(&e); err != nil || e.Error == "" {
		t.Errorf("move before init = %+v, %v; want an error", e, err)
	}

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	send(model.PlaybackCommand{Action: "init", Track: nil, Start: start, Step: 3600})
	e = model.Error{}
	if err := conn.ReadJSON(&e); err != nil || e.Error == "" {
		t.Errorf("init with an empty track = %+v, %v; want an error", e, err)
	}

	var track model.PlaybackCommand
	if err := json.Unmarshal([]byte(`{"action": "init", "track": [[0, 0], [0, 1], [1, 1]], "start": "2025-01-01T12:00:00Z", "step": 3600}`), &track); err != nil {
		t.Fatal(err)
	}
	send(track)
	if f := read(); f.Index != 0 || !f.Time.Equal(start) {
		t.Errorf("init frame = %+v", f)
	}

	send(model.PlaybackCommand{Action: "move", N: -1})
	if f := read(); f.Index != 2 {
		t.Errorf("move(-1) frame = %+v; want index 2", f)
	}

	send(model.PlaybackCommand{Action: "begin"})
	if f := read(); f.Index != 0 {
		t.Errorf("begin frame = %+v; want index 0", f)
	}

	send(model.PlaybackCommand{Action: "play"})
	for i := 0; i < 3; i++ {
		f := read()
		if f.Index != i || !f.Time.Equal(start.Add(time.Duration(i)*time.Hour)) {
			t.Errorf("play frame %d = %+v", i, f)
		}
	}
}

func TestGetIp(t *testing.T) {
	tests := []struct {
		header, value, remote, want string
	}{
		{"X-Real-Ip", "10.0.0.1", "192.168.1.1:1234", "10.0.0.1"},
		{"X-Forwarded-For", "bad, 10.0.0.2", "192.168.1.1:1234", "10.0.0.2"},
		{"", "", "192.168.1.1:1234", "192.168.1.1"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		if tt.header != "" {
			r.Header.Set(tt.header, tt.value)
		}
		if got, err := getIp(r); err != nil || got != tt.want {
			t.Errorf("getIp(%s: %s) = %s, %v; want %s", tt.header, tt.value, got, err, tt.want)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "nowhere"
	if _, err := getIp(r); err == nil {
		t.Errorf("getIp(nowhere) should fail")
	}
}
