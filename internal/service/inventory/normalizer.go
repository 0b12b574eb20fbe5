package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

// HeaderAliases folds historical header spellings of the operations sheet onto
// canonical field names.
var HeaderAliases = map[string]string{
	"B/L NO":      models.FieldIdentifier,
	"식별번호":        models.FieldIdentifier,
	"B/L NO,식별번호": models.FieldIdentifier,
	"BL식별번호":      models.FieldIdentifier,
	"BL NO":       models.FieldIdentifier,
	"브랜드-등급-est":  models.FieldBrand,
}

// CanonicalHeader returns the canonical name for a raw header.
func CanonicalHeader(header string) string {
	header = strings.TrimSpace(header)
	if canonical, ok := HeaderAliases[header]; ok {
		return canonical
	}
	return header
}

// Normalize renames aliased headers, trims every value and drops rows without an
// item name. When several raw headers fold onto the same field, the first non-empty
// value in header order wins.
func Normalize(raw []models.RawRecord) []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(raw))
	for _, row := range raw {
		headers := make([]string, 0, len(row))
		for header := range row {
			headers = append(headers, header)
		}
		sort.Strings(headers)

		record := make(models.InventoryRecord, len(row))
		for _, header := range headers {
			field := CanonicalHeader(header)
			text := strings.TrimSpace(stringify(row[header]))
			if existing, ok := record[field]; ok && (existing != "" || text == "") {
				continue
			}
			record[field] = text
		}
		if record.ItemName() == "" {
			continue
		}
		out = append(out, record)
	}
	return out
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
