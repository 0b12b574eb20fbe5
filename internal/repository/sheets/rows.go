package sheets

import (
	"fmt"
	"strings"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

// RecordsFromRows treats the first row as the header and turns every following row
// into a record keyed by header text. The API trims trailing empty cells, so short
// rows are padded with "". Columns with a blank header are skipped; on duplicate
// headers the right-most column wins.
func RecordsFromRows(rows [][]interface{}) []models.RawRecord {
	if len(rows) < 2 {
		return []models.RawRecord{}
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(models.RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			var value interface{} = ""
			if i < len(row) && row[i] != nil {
				value = row[i]
			}
			record[name] = value
		}
		records = append(records, record)
	}
	return records
}

// CellGrid converts API values into strings, preserving row lengths.
func CellGrid(rows [][]interface{}) [][]string {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellString(cell)
		}
		grid[i] = cells
	}
	return grid
}

// QuoteSheet wraps a sheet title for A1 notation.
func QuoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
