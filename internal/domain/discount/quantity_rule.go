package discount

import "github.com/shopspring/decimal"

// QuantityRule rewards bulk purchases of a single line. Thresholds are
// per-line quantity, not whole-cart quantity.
type QuantityRule struct{}

func NewQuantityRule() QuantityRule {
	return QuantityRule{}
}

func (QuantityRule) Name() string {
	return "quantity"
}

func (QuantityRule) IsApplicable(_ Context, _ Offer, quantity int) (bool, error) {
	return quantity >= 10, nil
}

func (QuantityRule) Apply(_ Context, _ Offer, quantity int) (decimal.Decimal, error) {
	switch {
	case quantity >= 50:
		return decimal.NewFromFloat(0.15), nil
	case quantity >= 40:
		return decimal.NewFromFloat(0.11), nil
	case quantity >= 30:
		return decimal.NewFromFloat(0.09), nil
	case quantity >= 20:
		return decimal.NewFromFloat(0.07), nil
	case quantity >= 10:
		return decimal.NewFromFloat(0.05), nil
	default:
		return decimal.Zero, nil
	}
}
