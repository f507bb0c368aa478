package sheets

import (
	"strings"

	"github.com/rongwang/sheet-tables-server/internal/models"
)

// Grid is the raw content of a sheet: rows of string cells. Rows may be
// shorter than the header row; missing cells count as blank.
type Grid [][]string

// Normalize converts a grid into its ordered column labels and sparse records.
//
// Row 0 is the header. Header cells are trimmed and blank ones are dropped,
// along with every cell beneath them. Data rows keep only their non-blank
// cells and rows that end up with no cells produce no record. Cell values are
// stored as provided; only the labels are trimmed.
//
// A grid without rows fails with ErrEmptySource. A header-only grid is valid
// and yields an empty record list.
func Normalize(grid Grid) (models.Columns, models.Records, error) {
	if len(grid) == 0 {
		return nil, nil, ErrEmptySource
	}

	header := grid[0]
	labels := make([]string, len(header))
	columns := make(models.Columns, 0, len(header))
	for i, cell := range header {
		labels[i] = strings.TrimSpace(cell)
		if labels[i] != "" {
			columns = append(columns, labels[i])
		}
	}

	data := make(models.Records, 0, len(grid)-1)
	for _, row := range grid[1:] {
		if isBlankRow(row) {
			continue
		}

		record := make(models.Record)
		for i, label := range labels {
			if label == "" || i >= len(row) {
				continue
			}
			if strings.TrimSpace(row[i]) == "" {
				continue
			}
			// Duplicate labels collapse onto one key, the rightmost non-blank cell wins.
			record[label] = row[i]
		}

		if len(record) == 0 {
			continue
		}
		data = append(data, record)
	}

	return columns, data, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
