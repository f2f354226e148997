package wind

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nilsmagnus/grib/griblib"
	log "github.com/sirupsen/logrus"
)

var centres = map[int]string{
	7:  "Weather service US",
	54: "Canadian Meteorological Service",
	78: "DWD Germany",
	85: "Meteo France",
	98: "ECMWF European",
}

// short names by discipline, parameter category and parameter number
var shortNames = map[[3]int]string{
	{0, 0, 0}:   "t",
	{0, 1, 1}:   "r",
	{0, 1, 7}:   "prate",
	{0, 2, 2}:   "10u",
	{0, 2, 3}:   "10v",
	{0, 2, 22}:  "gust",
	{0, 3, 0}:   "sp",
	{0, 3, 1}:   "prmsl",
	{0, 6, 1}:   "tcc",
	{10, 0, 3}:  "swh",
	{10, 1, 2}:  "ucurr",
	{10, 1, 3}:  "vcurr",
	{0, 19, 0}:  "vis",
	{0, 7, 6}:   "cape",
	{0, 1, 8}:   "tp",
	{0, 2, 1}:   "ws",
	{0, 2, 0}:   "wdir",
	{10, 0, 4}:  "mwd",
	{10, 0, 11}: "pp1d",
}

// CentreName returns the name of a GRIB originating centre, empty when unknown
func CentreName(id int) string {
	return centres[id]
}

// ShortName returns the ecCodes like short name of a parameter, "unknown" if not listed
func ShortName(discipline, category, number int) string {
	if name, ok := shortNames[[3]int{discipline, category, number}]; ok {
		return name
	}
	return "unknown"
}

// Info is the metadata of a GRIB file
type Info struct {
	CentreName string    `json:"centreName"`
	CentreID   int       `json:"centreID"`
	RunStart   time.Time `json:"runStart"`
	RunEnd     time.Time `json:"runEnd"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	NMessage   int       `json:"nMessage"`
	NLat       int       `json:"nLat"`
	NLon       int       `json:"nLon"`
	TopLat     float64   `json:"topLat"`
	BottomLat  float64   `json:"bottomLat"`
	LeftLon    float64   `json:"leftLon"`
	RightLon   float64   `json:"rightLon"`
	ShortNames []string  `json:"shortNames"`
	TimeStamps []int     `json:"timeStamps"`
}

// forecastHours converts a forecast time to hours given its GRIB time unit
func forecastHours(unit int, value int) int {
	switch unit {
	case 0:
		return value / 60
	case 2:
		return value * 24
	case 10:
		return value * 3
	case 11:
		return value * 6
	case 12:
		return value * 12
	default:
		return value
	}
}

func readMessages(path string) ([]*griblib.Message, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	messages, err := griblib.ReadMessages(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(messages) == 0 {
		return nil, nil, fmt.Errorf("%s: no grib message", path)
	}
	return messages, stat, nil
}

func referenceTime(message *griblib.Message) time.Time {
	rt := message.Section1.ReferenceTime
	return time.Date(int(rt.Year), time.Month(rt.Month), int(rt.Day), int(rt.Hour), int(rt.Minute), int(rt.Second), 0, time.UTC)
}

// Inspect reads the metadata of a GRIB2 file: originating centre, run, grid and the
// lists of parameters and forecast hours it holds.
func Inspect(path string) (Info, error) {
	log.Debugf("Inspect grib %s", path)

	messages, stat, err := readMessages(path)
	if err != nil {
		return Info{}, err
	}

	first := messages[0]
	info := Info{
		CentreID: int(first.Section1.OriginatingCenter),
		RunStart: referenceTime(first),
		FileName: filepath.Base(path),
		FileSize: stat.Size(),
		NMessage: len(messages),
	}
	info.CentreName = CentreName(info.CentreID)

	names := make(map[string]bool)
	stamps := make(map[int]bool)
	for _, message := range messages {
		product := message.Section4.ProductDefinitionTemplate
		name := ShortName(int(message.Section0.Discipline), int(product.ParameterCategory), int(product.ParameterNumber))
		if !names[name] {
			names[name] = true
			info.ShortNames = append(info.ShortNames, name)
		}
		stamps[forecastHours(int(product.TimeUnitIndicator), int(product.ForecastTime))] = true

		if grid0, ok := message.Section3.Definition.(*griblib.Grid0); ok && info.NLat == 0 {
			info.NLat = int(grid0.Nj)
			info.NLon = int(grid0.Ni)
			la1, la2 := float64(grid0.La1)/1e6, float64(grid0.La2)/1e6
			info.TopLat, info.BottomLat = la1, la2
			if la2 > la1 {
				info.TopLat, info.BottomLat = la2, la1
			}
			info.LeftLon = float64(grid0.Lo1) / 1e6
			info.RightLon = float64(grid0.Lo2) / 1e6
		}
	}

	for s := range stamps {
		info.TimeStamps = append(info.TimeStamps, s)
	}
	sort.Ints(info.TimeStamps)
	info.RunEnd = info.RunStart.Add(time.Duration(info.TimeStamps[len(info.TimeStamps)-1]) * time.Hour)

	return info, nil
}
