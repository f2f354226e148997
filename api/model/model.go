package model

import (
	"time"

	"github.com/a-bouts/nav-viewer/latlon"
	"github.com/a-bouts/nav-viewer/polar"
	"github.com/a-bouts/nav-viewer/race"
	"github.com/a-bouts/nav-viewer/report"
	"github.com/a-bouts/nav-viewer/track"
)

type Error struct {
	Error string `json:"error"`
}

type GreatCircle struct {
	From latlon.LatLon `json:"from"`
	To   latlon.LatLon `json:"to"`
	N    int           `json:"n"`
}

type GreatCirclePath struct {
	Path     []latlon.LatLon `json:"path"`
	Distance float64         `json:"distance"`
	Bearing  float64         `json:"bearing"`
}

type Bearing struct {
	From latlon.LatLon `json:"from"`
	To   latlon.LatLon `json:"to"`
}

// Course is the way from one point to another: great circle then rhumb line.
// Distances are in nautical miles.
type Course struct {
	Bearing      float64 `json:"bearing"`
	Distance     float64 `json:"distance"`
	LoxoBearing  float64 `json:"loxoBearing"`
	LoxoDistance float64 `json:"loxoDistance"`
}

type Positions struct {
	Points []latlon.LatLon `json:"points"`
}

type DMS struct {
	Points []string `json:"points"`
}

// Polar is a polar table as rows, the first row holding the wind speeds
type Polar struct {
	PolarName string      `json:"polarName"`
	NLine     int         `json:"nLine"`
	NCol      int         `json:"nCol"`
	Max       float64     `json:"max"`
	Array     [][]float64 `json:"array"`
}

type PolarCheck struct {
	PolarName string   `json:"polarName"`
	Report    []string `json:"report"`
}

type Tacks struct {
	Vmg     []float64 `json:"vmg"`
	VmgBack []float64 `json:"vmgBack"`
}

type Curve struct {
	polar.Curve
	Wind  *float64 `json:"wind,omitempty"`
	Tacks *Tacks   `json:"tacks,omitempty"`
}

type BoatSpeed struct {
	Twa   float64 `json:"twa"`
	Tws   float64 `json:"tws"`
	Speed float64 `json:"speed"`
}

type Wind struct {
	Wind  float64 `json:"wind"`
	Speed float64 `json:"speed"`
}

type Bounds struct {
	SouthWest latlon.LatLon `json:"southWest"`
	NorthEast latlon.LatLon `json:"northEast"`
}

type Plan struct {
	Name   string            `json:"name"`
	Legs   []race.Leg        `json:"legs"`
	Paths  [][]latlon.LatLon `json:"paths"`
	Bounds Bounds            `json:"bounds"`
	Ortho  float64           `json:"ortho"`
	Loxo   float64           `json:"loxo"`
	// indexes of the waypoints, and of the points of each path, on land
	WaypointsOnLand []int   `json:"waypointsOnLand,omitempty"`
	PathsOnLand     [][]int `json:"pathsOnLand,omitempty"`
}

type Competitors struct {
	NComp        int                    `json:"nComp"`
	StartTimeStr string                 `json:"startTimeStr"`
	IsocTimeStep string                 `json:"isocTimeStep"`
	Polar        string                 `json:"polar"`
	Rows         []report.CompetitorRow `json:"rows"`
}

// Track is a computed route to export: point i is reached at Start + i * Step seconds
type Track struct {
	Name  string          `json:"name"`
	Route []latlon.LatLon `json:"route"`
	Start time.Time       `json:"start"`
	Step  int             `json:"step"`
}

type Fixes struct {
	Count    int         `json:"count"`
	Distance float64     `json:"distance"`
	Fixes    []track.Fix `json:"fixes"`
}

// PlaybackCommand drives a playback over a websocket. Action is one of init, play,
// stop, move and begin.
type PlaybackCommand struct {
	Action string          `json:"action"`
	Track  []latlon.LatLon `json:"track"`
	Start  time.Time       `json:"start"`
	Step   int             `json:"step"`
	N      int             `json:"n"`
}
