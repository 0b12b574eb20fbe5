package sheets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
)

func TestRecordsFromRows_PadsShortRows(t *testing.T) {
	rows := [][]interface{}{
		{"품명", "브랜드", "", "재고수량"},
		{"Ribeye", "Kilcoy", "ignored", 12},
		{"Brisket"},
	}

	records := sheets.RecordsFromRows(rows)

	require.Len(t, records, 2)
	assert.Equal(t, "Ribeye", records[0]["품명"])
	assert.Equal(t, 12, records[0]["재고수량"])
	assert.NotContains(t, records[0], "")
	assert.Equal(t, "", records[1]["브랜드"])
	assert.Equal(t, "", records[1]["재고수량"])
}

func TestRecordsFromRows_HeaderOnly(t *testing.T) {
	assert.Empty(t, sheets.RecordsFromRows([][]interface{}{{"품명"}}))
	assert.Empty(t, sheets.RecordsFromRows(nil))
}

func TestCellGrid(t *testing.T) {
	grid := sheets.CellGrid([][]interface{}{{"a", 3, nil}, {}})

	assert.Equal(t, [][]string{{"a", "3", ""}, {}}, grid)
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'출고증'", sheets.QuoteSheet("출고증"))
	assert.Equal(t, "'it''s'", sheets.QuoteSheet("it's"))
}
