package order

import (
	"errors"

	"marketfill/internal/domain/discount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart           = errors.New("cart cannot be empty")
	ErrNonPositiveQuantity = errors.New("cart line quantity must be positive")
	ErrEmptySKU            = errors.New("cart line sku cannot be empty")
)

// CartLine is one requested (sku, quantity) pair, preserved verbatim on
// the order for audit.
type CartLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// NewCart validates the shape of an inbound cart.
func NewCart(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range lines {
		if line.SKU == "" {
			return nil, ErrEmptySKU
		}
		if line.Quantity < 1 {
			return nil, ErrNonPositiveQuantity
		}
	}
	return lines, nil
}

// ResolvedOffer is the outcome of resolving one cart line: the chosen
// offer with stock already reserved, plus the composed discount.
type ResolvedOffer struct {
	OfferID        uuid.UUID
	ProductID      uuid.UUID
	VendorID       uuid.UUID
	SKU            string
	Quantity       int
	UnitPrice      decimal.Decimal
	UnitFinalPrice decimal.Decimal
	Breakdown      []discount.Entry
}
