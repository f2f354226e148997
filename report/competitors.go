package report

import "fmt"

type Competitor struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DistToMain  float64 `json:"distToMain"`
	ETA         string  `json:"ETA"`
	DistDone    float64 `json:"distDone"`
	ToBestDelay int64   `json:"toBestDelay"`
	ToMainDelay int64   `json:"toMainDelay"`
}

// Competitors compares the routes of several boats sharing a start time
type Competitors struct {
	NComp        int          `json:"nComp"`
	StartTimeStr string       `json:"startTimeStr"`
	IsocTimeStep int64        `json:"isocTimeStep"`
	Polar        string       `json:"polar"`
	Array        []Competitor `json:"array"`
}

type CompetitorRow struct {
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DistToMain  string `json:"distToMain"`
	ETA         string `json:"eta"`
	DistDone    string `json:"distDone"`
	ToBestDelay string `json:"toBestDelay"`
	ToMainDelay string `json:"toMainDelay"`
}

// Rows formats each competitor for a table: positions with 4 decimals, distances
// in NM with 2 decimals, delays in seconds.
func (c Competitors) Rows() ([]CompetitorRow, error) {
	if len(c.Array) == 0 {
		return nil, ErrNoData
	}

	rows := make([]CompetitorRow, len(c.Array))
	for i, comp := range c.Array {
		rows[i] = CompetitorRow{
			Name:        comp.Name,
			Lat:         fmt.Sprintf("%.4f", comp.Lat),
			Lon:         fmt.Sprintf("%.4f", comp.Lon),
			DistToMain:  fmt.Sprintf("%.2f NM", comp.DistToMain),
			ETA:         comp.ETA,
			DistDone:    fmt.Sprintf("%.2f NM", comp.DistDone),
			ToBestDelay: fmt.Sprintf("%d sec", comp.ToBestDelay),
			ToMainDelay: fmt.Sprintf("%d sec", comp.ToMainDelay),
		}
	}
	return rows, nil
}
