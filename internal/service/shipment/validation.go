package shipment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClientRequired rejects submissions without a client name.
	ErrClientRequired = errors.New("client name is required")
	// ErrInsufficientStock rejects submissions larger than the on-hand quantity.
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	// ErrInvalidQuantity rejects quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPrice rejects negative prices.
	ErrInvalidPrice = errors.New("price must not be negative")
)

// ValidateSubmission is the local gate run before touching the ledger. available is
// the raw quantity cell of the selected inventory row.
func ValidateSubmission(client string, requested int, available string) error {
	if strings.TrimSpace(client) == "" {
		return ErrClientRequired
	}
	if requested < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, requested)
	}
	stock := ParseStock(available)
	if float64(requested) > stock {
		return fmt.Errorf("%w: requested %d, available %g", ErrInsufficientStock, requested, stock)
	}
	return nil
}

// ValidatePrice rejects a negative unit price. Unparsable prices are written as 0 and
// are not rejected here.
func ValidatePrice(price int) error {
	if price < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}
	return nil
}
