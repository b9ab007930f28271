package discount

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is the rule-facing view of a vendor offer: only the fields a
// discount decision may depend on.
type Offer struct {
	Price      decimal.Decimal
	CategoryID int
}

// Context carries per-evaluation inputs. Rules are stateless; anything
// specific to the purchasing customer travels here so nothing leaks
// between requests.
type Context struct {
	CustomerID       uuid.UUID
	RecentOrderCount int
}

// Rule contributes an additive discount fraction for an offer and
// requested quantity. Apply is only called after IsApplicable returns
// true for the same inputs.
type Rule interface {
	Name() string
	IsApplicable(ec Context, offer Offer, quantity int) (bool, error)
	Apply(ec Context, offer Offer, quantity int) (decimal.Decimal, error)
}
