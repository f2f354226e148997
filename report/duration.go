package report

import (
	"fmt"
	"math"
)

// FormatDuration formats seconds as days then hours, minutes and seconds: "1j 02:03:04"
func FormatDuration(seconds int64) string {
	days := seconds / (24 * 3600)
	hours := (seconds % (24 * 3600)) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%dj %02d:%02d:%02d", days, hours, minutes, secs)
}

// ConvertToHHMM formats seconds as hours and rounded minutes: "1:30"
func ConvertToHHMM(seconds float64) string {
	hours := math.Floor(seconds / 3600)
	minutes := math.Round((seconds/3600 - hours) * 60)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", int64(hours), int64(minutes))
}
