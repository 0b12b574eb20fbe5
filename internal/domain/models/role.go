package models

import (
	"fmt"
	"strings"
)

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSalesOperator Role = "sales_operator"
)

// Capabilities describes what a role may see and do.
type Capabilities struct {
	VisibleColumns       []string `json:"visible_columns"`
	ExcludeMainWarehouse bool     `json:"exclude_main_warehouse"`
	MainWarehouseFirst   bool     `json:"main_warehouse_first"`
	CanWriteShipments    bool     `json:"can_write_shipments"`
	CanReadAudit         bool     `json:"can_read_audit"`
}

var roleCapabilities = map[Role]Capabilities{
	RoleAdministrator: {
		VisibleColumns:     []string{FieldItemName, FieldBrand, FieldQuantity, FieldWarehouse, FieldExpiry, FieldAvgWeight},
		MainWarehouseFirst: true,
		CanReadAudit:       true,
	},
	RoleSalesOperator: {
		VisibleColumns:       []string{FieldItemName, FieldBrand, FieldQuantity, FieldIdentifier, FieldWarehouse, FieldExpiry, FieldAvgWeight},
		ExcludeMainWarehouse: true,
		MainWarehouseFirst:   true,
		CanWriteShipments:    true,
	},
}

// ParseRole maps a configured role name onto the enumeration.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleCapabilities[role]; !ok {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Capabilities returns the capability table entry for the role. Unknown roles get
// the zero value, which grants nothing.
func (r Role) Capabilities() Capabilities {
	caps := roleCapabilities[r]
	caps.VisibleColumns = append([]string(nil), caps.VisibleColumns...)
	return caps
}
