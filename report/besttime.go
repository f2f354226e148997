package report

import (
	"time"
)

// BestTime is the result of a departure time sweep: Array holds the route duration
// in seconds for each departure, departures being TInterval seconds apart.
type BestTime struct {
	Count       int       `json:"count"`
	TInterval   int64     `json:"tInterval"`
	TBegin      int64     `json:"tBegin"`
	TEnd        int64     `json:"tEnd"`
	MinDuration float64   `json:"minDuration"`
	MaxDuration float64   `json:"maxDuration"`
	Array       []float64 `json:"array"`
}

type Bar struct {
	Departure time.Time `json:"departure"`
	Hours     float64   `json:"hours"`
	Best      bool      `json:"best"`
}

type Histogram struct {
	Count       int       `json:"count"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	MinDuration float64   `json:"minDuration"`
	MaxDuration float64   `json:"maxDuration"`
	Bars        []Bar     `json:"bars"`
}

// Histogram returns one bar per departure, starting at startEpoch (unix seconds).
// Every bar with the shortest duration is flagged as best.
func (b BestTime) Histogram(startEpoch int64) (Histogram, error) {
	if len(b.Array) == 0 {
		return Histogram{}, ErrNoData
	}

	best := b.Array[0]
	for _, d := range b.Array[1:] {
		if d < best {
			best = d
		}
	}

	at := func(i int64) time.Time {
		return time.Unix(startEpoch+i*b.TInterval, 0).UTC()
	}

	h := Histogram{
		Count:       b.Count,
		From:        at(b.TBegin),
		To:          at(b.TEnd),
		MinDuration: b.MinDuration / 3600,
		MaxDuration: b.MaxDuration / 3600,
		Bars:        make([]Bar, len(b.Array)),
	}
	for i, d := range b.Array {
		h.Bars[i] = Bar{
			Departure: at(int64(i)),
			Hours:     d / 3600,
			Best:      d == best,
		}
	}
	return h, nil
}
