package discount

import "github.com/shopspring/decimal"

// LoyaltyRule rewards customers who placed more than five orders in the
// trailing six months. The order count is read upstream (with a cached
// lookup) and carried in by the evaluation context.
type LoyaltyRule struct{}

func NewLoyaltyRule() LoyaltyRule {
	return LoyaltyRule{}
}

func (LoyaltyRule) Name() string {
	return "loyaltycustomer"
}

func (LoyaltyRule) IsApplicable(ec Context, _ Offer, _ int) (bool, error) {
	return ec.RecentOrderCount > 5, nil
}

func (LoyaltyRule) Apply(ec Context, _ Offer, _ int) (decimal.Decimal, error) {
	switch {
	case ec.RecentOrderCount >= 30:
		return decimal.NewFromFloat(0.15), nil
	case ec.RecentOrderCount >= 20:
		return decimal.NewFromFloat(0.12), nil
	case ec.RecentOrderCount >= 10:
		return decimal.NewFromFloat(0.1), nil
	case ec.RecentOrderCount >= 6:
		return decimal.NewFromFloat(0.05), nil
	default:
		return decimal.Zero, nil
	}
}
