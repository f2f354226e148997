package polar

import "fmt"

// Check reports the suspicious values of the table: wind speeds and wind angles
// must progress, and the speeds of each row and each column must rise up to their
// max then decrease. An empty report means the table looks sound.
func (t Table) Check() []string {
	var report []string

	for c := 1; c < len(t.Tws); c++ {
		if t.Tws[c] < t.Tws[c-1] {
			report = append(report, fmt.Sprintf("wind speeds should progress, col: %d", c+1))
		}
	}
	for r := 1; r < len(t.Twa); r++ {
		if t.Twa[r] < t.Twa[r-1] {
			report = append(report, fmt.Sprintf("wind angles should progress, row: %d", r+1))
		}
	}

	for r, row := range t.Speeds {
		cMax := argMax(row)
		for c := 1; c <= cMax; c++ {
			if row[c] < row[c-1] {
				report = append(report, fmt.Sprintf("values in row: %d should progress at col: %d up to maxInRow: %.2f", r+1, c+1, row[cMax]))
			}
		}
		for c := cMax + 1; c < len(row); c++ {
			if row[c] > row[c-1] {
				report = append(report, fmt.Sprintf("values in row: %d should regress at col: %d after maxInRow: %.2f", r+1, c+1, row[cMax]))
			}
		}
	}

	for c := range t.Tws {
		col := t.column(c)
		rMax := argMax(col)
		for r := 1; r <= rMax; r++ {
			if col[r] < col[r-1] {
				report = append(report, fmt.Sprintf("values in col: %d should progress at row: %d up to maxInCol: %.2f", c+1, r+1, col[rMax]))
			}
		}
		for r := rMax + 1; r < len(col); r++ {
			if col[r] > col[r-1] {
				report = append(report, fmt.Sprintf("values in col: %d should regress at row: %d after maxInCol: %.2f", c+1, r+1, col[rMax]))
			}
		}
	}

	return report
}

// argMax returns the index of the first max value, -1 if empty
func argMax(values []float64) int {
	max := -1
	for i, v := range values {
		if max == -1 || v > values[max] {
			max = i
		}
	}
	return max
}
