package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TransferMarker is written to the ledger's last column when payment is by transfer.
const TransferMarker = "이체"

// NumericInput accepts either a JSON number or a JSON string so that values such as
// "1,250" or "₩3,000" reach the sanitizer untouched.
type NumericInput string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	*n = NumericInput(data)
	return nil
}

// ShipmentRequest is the payload submitted by a sales operator.
type ShipmentRequest struct {
	ItemName   string       `json:"item_name" binding:"required"`
	Brand      string       `json:"brand"`
	Warehouse  string       `json:"warehouse"`
	Identifier string       `json:"identifier"`
	Date       string       `json:"date"`
	Manager    string       `json:"manager"`
	Client     string       `json:"client"`
	Quantity   NumericInput `json:"quantity"`
	Price      NumericInput `json:"price"`
	ShipFrom   string       `json:"ship_from"`
	Transfer   *bool        `json:"transfer"`
}

// ShipmentRecord is the row written into the ledger.
type ShipmentRecord struct {
	Manager    string
	Client     string
	ItemName   string
	Brand      string
	Identifier string
	Quantity   string
	Warehouse  string
	Price      string
	Transfer   bool
}

// ShipmentResult tells the caller where the shipment landed.
type ShipmentResult struct {
	Date  string `json:"date"`
	Row   int    `json:"row"`
	Range string `json:"range"`
}

// ShipmentCandidate is one selectable inventory row in the shipment form.
type ShipmentCandidate struct {
	Label      string `json:"label"`
	ItemName   string `json:"item_name"`
	Brand      string `json:"brand"`
	Warehouse  string `json:"warehouse"`
	Identifier string `json:"identifier"`
	Quantity   string `json:"quantity"`
}

// ShipmentAudit is the MongoDB document kept for every ledger write.
type ShipmentAudit struct {
	ID          string    `bson:"_id" json:"id"`
	SubmittedBy string    `bson:"submitted_by" json:"submitted_by"`
	LedgerDate  string    `bson:"ledger_date" json:"ledger_date"`
	Row         int       `bson:"row" json:"row"`
	Manager     string    `bson:"manager" json:"manager"`
	Client      string    `bson:"client" json:"client"`
	ItemName    string    `bson:"item_name" json:"item_name"`
	Brand       string    `bson:"brand" json:"brand"`
	Identifier  string    `bson:"identifier" json:"identifier"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	Warehouse   string    `bson:"warehouse" json:"warehouse"`
	Price       int       `bson:"price" json:"price"`
	Transfer    bool      `bson:"transfer" json:"transfer"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// LedgerSummary aggregates the ledger rows of one date.
type LedgerSummary struct {
	Date          string `json:"date"`
	FilledRows    int    `json:"filled_rows"`
	AvailableRows int    `json:"available_rows"`
	TotalQuantity int    `json:"total_quantity"`
	TotalAmount   int    `json:"total_amount"`
}
