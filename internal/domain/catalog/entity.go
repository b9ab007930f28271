package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositivePrice   = errors.New("offer price must be positive")
	ErrNegativeQuantity   = errors.New("offer quantity cannot be negative")
	ErrEmptyVendorName    = errors.New("vendor name cannot be empty")
	ErrInvalidVendorEmail = errors.New("invalid vendor email")
)

type Product struct {
	id         uuid.UUID
	sku        SKU
	name       string
	categoryID int
	createdAt  time.Time
}

func NewProduct(id uuid.UUID, sku SKU, name string, categoryID int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyProductName
	}
	if len(name) > MaxProductNameLength {
		return nil, ErrProductNameTooLong
	}
	if categoryID < 0 {
		return nil, ErrNegativeCategory
	}

	return &Product{
		id:         id,
		sku:        sku,
		name:       name,
		categoryID: categoryID,
	}, nil
}

func (p *Product) ID() uuid.UUID       { return p.id }
func (p *Product) SKU() SKU            { return p.sku }
func (p *Product) Name() string        { return p.name }
func (p *Product) CategoryID() int     { return p.categoryID }
func (p *Product) CreatedAt() time.Time { return p.createdAt }

type Vendor struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
}

func NewVendor(id uuid.UUID, name, email string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyVendorName
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidVendorEmail
	}

	return &Vendor{
		id:    id,
		name:  name,
		email: email,
	}, nil
}

func (v *Vendor) ID() uuid.UUID        { return v.id }
func (v *Vendor) Name() string         { return v.name }
func (v *Vendor) Email() string        { return v.email }
func (v *Vendor) CreatedAt() time.Time { return v.createdAt }

// Offer is one vendor's listing of a product: a price and the remaining
// stock. Stock mutation happens in the repository with a conditional
// decrement; the entity only validates shape.
type Offer struct {
	id        uuid.UUID
	productID uuid.UUID
	vendorID  uuid.UUID
	price     decimal.Decimal
	quantity  int
	createdAt time.Time
	updatedAt time.Time
}

func NewOffer(id, productID, vendorID uuid.UUID, price decimal.Decimal, quantity int) (*Offer, error) {
	if !price.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	return &Offer{
		id:        id,
		productID: productID,
		vendorID:  vendorID,
		price:     price,
		quantity:  quantity,
	}, nil
}

func (o *Offer) ID() uuid.UUID          { return o.id }
func (o *Offer) ProductID() uuid.UUID   { return o.productID }
func (o *Offer) VendorID() uuid.UUID    { return o.vendorID }
func (o *Offer) Price() decimal.Decimal { return o.price }
func (o *Offer) Quantity() int          { return o.quantity }
func (o *Offer) CreatedAt() time.Time   { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time   { return o.updatedAt }

// CanFulfill reports whether the offer has enough stock for the
// requested quantity.
func (o *Offer) CanFulfill(quantity int) bool {
	return quantity > 0 && o.quantity >= quantity
}
