package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

// BrandMode selects how the brand predicate matches.
type BrandMode int

const (
	// BrandPrefix matches brands starting with the query (inventory view).
	BrandPrefix BrandMode = iota
	// BrandContains matches brands containing the query (shipment search).
	BrandContains
)

// Filter holds optional case-insensitive predicates. Empty fields match everything.
type Filter struct {
	Item      string
	Brand     string
	BrandMode BrandMode
}

// Apply returns the records matching every predicate, keeping input order.
func (f Filter) Apply(records []models.InventoryRecord) []models.InventoryRecord {
	item := strings.ToLower(strings.TrimSpace(f.Item))
	brand := strings.ToLower(strings.TrimSpace(f.Brand))

	out := make([]models.InventoryRecord, 0, len(records))
	for _, r := range records {
		if item != "" && !strings.Contains(strings.ToLower(r.ItemName()), item) {
			continue
		}
		if brand != "" && !f.matchBrand(strings.ToLower(r.Brand()), brand) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f Filter) matchBrand(value, query string) bool {
	if f.BrandMode == BrandContains {
		return strings.Contains(value, query)
	}
	return strings.HasPrefix(value, query)
}

// SortOptions controls ordering. MainWarehouse is the token identifying the main
// warehouse by substring of the warehouse name.
type SortOptions struct {
	MainWarehouse      string
	MainWarehouseFirst bool
	ByExpiry           bool
}

// IsMainWarehouse reports whether warehouse names the main warehouse.
func IsMainWarehouse(warehouse, token string) bool {
	return token != "" && strings.Contains(warehouse, token)
}

// ExcludeMainWarehouse drops rows stored in the main warehouse.
func ExcludeMainWarehouse(records []models.InventoryRecord, token string) []models.InventoryRecord {
	if token == "" {
		return records
	}
	out := make([]models.InventoryRecord, 0, len(records))
	for _, r := range records {
		if !IsMainWarehouse(r.Warehouse(), token) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records in place and returns them. Warehouse ordering is main
// warehouse (first or last), then warehouse name, then item name. Expiry ordering is
// soonest first with undated rows last.
func Sort(records []models.InventoryRecord, opts SortOptions) []models.InventoryRecord {
	if opts.ByExpiry {
		sort.SliceStable(records, func(i, j int) bool {
			return expiryLess(records[i], records[j])
		})
		return records
	}

	rank := func(r models.InventoryRecord) int {
		main := IsMainWarehouse(r.Warehouse(), opts.MainWarehouse)
		if main == opts.MainWarehouseFirst {
			return 0
		}
		return 1
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		if a.Warehouse() != b.Warehouse() {
			return a.Warehouse() < b.Warehouse()
		}
		return a.ItemName() < b.ItemName()
	})
	return records
}

var expiryLayouts = []string{"2006-01-02", "2006.01.02", "2006. 1. 2", "2006/01/02", "2006.1.2", "20060102"}

func parseExpiry(value string) (time.Time, bool) {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "."))
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func expiryLess(a, b models.InventoryRecord) bool {
	ea, eb := a.Expiry(), b.Expiry()
	if (ea == "") != (eb == "") {
		return eb == ""
	}
	ta, okA := parseExpiry(ea)
	tb, okB := parseExpiry(eb)
	if okA && okB {
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return a.ItemName() < b.ItemName()
	}
	if ea != eb {
		return ea < eb
	}
	return a.ItemName() < b.ItemName()
}
