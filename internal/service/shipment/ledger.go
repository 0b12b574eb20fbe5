package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	repo "github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
)

// ErrNoAvailableRow means every provisioned row for the date is already filled, or
// the date has no rows at all. Rows are provisioned by operations staff.
var ErrNoAvailableRow = errors.New("no available ledger row for date")

// Ledger column layout, 0-based.
const (
	dateColumn  = 2
	firstColumn = 3
)

// LedgerDate renders t the way the ledger's date column is typed: "{month}. {day}"
// without zero padding.
func LedgerDate(t time.Time) string {
	return fmt.Sprintf("%d. %d", int(t.Month()), t.Day())
}

// LocateAvailableRow scans rows from the bottom up and returns the 1-based number of
// the first row whose date cell equals date and whose manager cell is blank. Same-day
// entries therefore fill a date block from its bottom row upward.
func LocateAvailableRow(rows [][]string, date string) (int, error) {
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) <= dateColumn || strings.TrimSpace(row[dateColumn]) != date {
			continue
		}
		if len(row) <= firstColumn || strings.TrimSpace(row[firstColumn]) == "" {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrNoAvailableRow, date)
}

// LedgerRange is the D..L range of one ledger row.
func LedgerRange(sheet string, row int) string {
	return fmt.Sprintf("%s!D%d:L%d", repo.QuoteSheet(sheet), row, row)
}

// LedgerReadRange covers every column the locator and the summary look at.
func LedgerReadRange(sheet string) string {
	return repo.QuoteSheet(sheet) + "!A:L"
}

// LedgerValues returns the nine cells written into columns D..L. Quantity and price
// that fail to parse are written as 0; the returned slice of field names lists them.
func LedgerValues(record models.ShipmentRecord) ([]interface{}, []string) {
	var coerced []string

	qty, ok := SanitizeInt(record.Quantity)
	if !ok {
		coerced = append(coerced, "quantity")
	}
	price, ok := SanitizeInt(record.Price)
	if !ok {
		coerced = append(coerced, "price")
	}

	identifier := strings.TrimSpace(record.Identifier)
	if identifier == "" {
		identifier = models.IdentifierPlaceholder
	}

	transfer := ""
	if record.Transfer {
		transfer = models.TransferMarker
	}

	return []interface{}{
		record.Manager,
		record.Client,
		record.ItemName,
		record.Brand,
		identifier,
		qty,
		record.Warehouse,
		price,
		transfer,
	}, coerced
}
