//go:build unit || e2e

package builder

import (
	reqdto "marketfill/internal/handler/dto/request"
	"marketfill/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartBuilder struct {
	Items []reqdto.CartLineRequest
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		Items: []reqdto.CartLineRequest{
			{SKU: "WIDGET-STD", Quantity: 2},
		},
	}
}

func (b *CartBuilder) WithItem(sku string, quantity int) *CartBuilder {
	b.Items = append(b.Items, reqdto.CartLineRequest{SKU: sku, Quantity: quantity})
	return b
}

func (b *CartBuilder) BuildDTO() reqdto.ProcessCartRequest {
	return reqdto.ProcessCartRequest{Items: b.Items}
}

type ProcessCartResultBuilder struct {
	OrderID   uuid.UUID
	Purchased []commands.PurchasedLine
}

func NewProcessCartResultBuilder() *ProcessCartResultBuilder {
	return &ProcessCartResultBuilder{
		OrderID: uuid.New(),
		Purchased: []commands.PurchasedLine{
			{
				SKU:            "WIDGET-STD",
				Quantity:       2,
				UnitPrice:      decimal.RequireFromString("12.50"),
				UnitFinalPrice: decimal.RequireFromString("12.50"),
			},
		},
	}
}

func (b *ProcessCartResultBuilder) Build() *commands.ProcessCartResult {
	return &commands.ProcessCartResult{
		OrderID:   b.OrderID,
		Purchased: b.Purchased,
	}
}
