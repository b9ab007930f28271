package response

import (
	"encoding/json"
	"time"

	"marketfill/internal/usecase/commands"
	"marketfill/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PurchasedLineResponse struct {
	SKU                    string  `json:"sku"`
	Quantity               int     `json:"quantity"`
	UnitPrice              float64 `json:"unit_price"`
	UnitPriceAfterDiscount float64 `json:"unit_price_after_discount"`
}

type ProcessCartResponse struct {
	OrderID   uuid.UUID               `json:"order_id"`
	Purchased []PurchasedLineResponse `json:"purchased"`
}

func FromProcessCartResult(result *commands.ProcessCartResult) *ProcessCartResponse {
	purchased := make([]PurchasedLineResponse, 0, len(result.Purchased))
	for _, line := range result.Purchased {
		purchased = append(purchased, PurchasedLineResponse{
			SKU:                    line.SKU,
			Quantity:               line.Quantity,
			UnitPrice:              line.UnitPrice.InexactFloat64(),
			UnitPriceAfterDiscount: line.UnitFinalPrice.InexactFloat64(),
		})
	}
	return &ProcessCartResponse{
		OrderID:   result.OrderID,
		Purchased: purchased,
	}
}

type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	Cart            json.RawMessage    `json:"cart"`
	TotalPrice      string             `json:"total_price"`
	TotalFinalPrice string             `json:"total_final_price"`
	TotalQuantity   int                `json:"total_quantity"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	SubOrders       []SubOrderResponse `json:"sub_orders"`
}

type SubOrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	VendorID           uuid.UUID           `json:"vendor_id"`
	VendorName         string              `json:"vendor_name"`
	SubTotalPrice      string              `json:"sub_total_price"`
	SubTotalFinalPrice string              `json:"sub_total_final_price"`
	SubTotalQuantity   int                 `json:"sub_total_quantity"`
	Status             string              `json:"status"`
	Lines              []OrderLineResponse `json:"lines"`
}

type OrderLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      string          `json:"unit_price"`
	UnitFinalPrice string          `json:"unit_final_price"`
	Discounts      json.RawMessage `json:"discounts"`
}

func FromOrderView(view *queries.OrderView) (*OrderResponse, error) {
	var resp OrderResponse
	if err := copier.CopyWithOption(&resp, view, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	resp.TotalPrice = view.TotalPrice.StringFixed(2)
	resp.TotalFinalPrice = view.TotalFinalPrice.StringFixed(2)
	for i := range view.SubOrders {
		resp.SubOrders[i].SubTotalPrice = view.SubOrders[i].SubTotalPrice.StringFixed(2)
		resp.SubOrders[i].SubTotalFinalPrice = view.SubOrders[i].SubTotalFinalPrice.StringFixed(2)
		for j := range view.SubOrders[i].Lines {
			resp.SubOrders[i].Lines[j].UnitPrice = view.SubOrders[i].Lines[j].UnitPrice.StringFixed(2)
			resp.SubOrders[i].Lines[j].UnitFinalPrice = view.SubOrders[i].Lines[j].UnitFinalPrice.StringFixed(2)
		}
	}
	return &resp, nil
}
