package models

// Canonical inventory field names. These are the header spellings the operations
// sheet uses today; historical spellings are folded into them by the normalizer.
const (
	FieldItemName   = "품명"
	FieldBrand      = "브랜드"
	FieldQuantity   = "재고수량"
	FieldWarehouse  = "창고명"
	FieldExpiry     = "소비기한"
	FieldIdentifier = "BL넘버"
	FieldAvgWeight  = "평균중량"
)

// IdentifierPlaceholder is written to the ledger when an item has no B/L number.
const IdentifierPlaceholder = "-"

// RawRecord is one data row of the inventory sheet keyed by its header cell.
type RawRecord map[string]any

// InventoryRecord is a normalized inventory row keyed by canonical field name.
// Absent fields read as the empty string.
type InventoryRecord map[string]string

// Get returns the value stored under field or "" when the column is absent.
func (r InventoryRecord) Get(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

func (r InventoryRecord) ItemName() string  { return r.Get(FieldItemName) }
func (r InventoryRecord) Brand() string     { return r.Get(FieldBrand) }
func (r InventoryRecord) Quantity() string  { return r.Get(FieldQuantity) }
func (r InventoryRecord) Warehouse() string { return r.Get(FieldWarehouse) }
func (r InventoryRecord) Expiry() string    { return r.Get(FieldExpiry) }
func (r InventoryRecord) AvgWeight() string { return r.Get(FieldAvgWeight) }

// Identifier returns the B/L or lot number, falling back to IdentifierPlaceholder.
func (r InventoryRecord) Identifier() string {
	if id := r.Get(FieldIdentifier); id != "" {
		return id
	}
	return IdentifierPlaceholder
}

// Project returns the values of the given columns in order.
func (r InventoryRecord) Project(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = r.Get(col)
	}
	return out
}
