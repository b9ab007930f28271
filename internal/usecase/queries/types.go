package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Cart            json.RawMessage `json:"cart"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	TotalFinalPrice decimal.Decimal `json:"total_final_price"`
	TotalQuantity   int             `json:"total_quantity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	SubOrders       []SubOrderView  `json:"sub_orders"`
}

type SubOrderView struct {
	ID                 uuid.UUID       `json:"id"`
	OrderID            uuid.UUID       `json:"order_id"`
	VendorID           uuid.UUID       `json:"vendor_id"`
	VendorName         string          `json:"vendor_name"`
	SubTotalPrice      decimal.Decimal `json:"sub_total_price"`
	SubTotalFinalPrice decimal.Decimal `json:"sub_total_final_price"`
	SubTotalQuantity   int             `json:"sub_total_quantity"`
	Status             string          `json:"status"`
	Lines              []OrderLineView `json:"lines"`
}

type OrderLineView struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"product_name"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitFinalPrice decimal.Decimal `json:"unit_final_price"`
	Discounts      json.RawMessage `json:"discounts"`
}

type ProductView struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	CategoryID int       `json:"category_id"`
}

type AuthorizedCustomerView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}
