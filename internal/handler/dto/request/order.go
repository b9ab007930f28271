package request

import (
	"marketfill/internal/domain/order"
)

type CartLineRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type ProcessCartRequest struct {
	Items []CartLineRequest `json:"items" binding:"required,min=1,dive"`
}

func (r ProcessCartRequest) ToDomain() ([]order.CartLine, error) {
	lines := make([]order.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, order.CartLine{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}
	return order.NewCart(lines)
}
