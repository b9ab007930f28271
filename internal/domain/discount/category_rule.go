package discount

import "github.com/shopspring/decimal"

// CategoryRule discounts a fixed set of product categories. The set and
// its fractions are part of the pricing contract, so they live here
// rather than in configuration.
type CategoryRule struct {
	fractions map[int]decimal.Decimal
}

func NewCategoryRule() CategoryRule {
	return CategoryRule{
		fractions: map[int]decimal.Decimal{
			2: decimal.NewFromFloat(0.05),
			5: decimal.NewFromFloat(0.07),
			7: decimal.NewFromFloat(0.09),
			9: decimal.NewFromFloat(0.11),
		},
	}
}

func (CategoryRule) Name() string {
	return "category"
}

func (r CategoryRule) IsApplicable(_ Context, offer Offer, _ int) (bool, error) {
	_, ok := r.fractions[offer.CategoryID]
	return ok, nil
}

func (r CategoryRule) Apply(_ Context, offer Offer, _ int) (decimal.Decimal, error) {
	f, ok := r.fractions[offer.CategoryID]
	if !ok {
		return decimal.Zero, nil
	}
	return f, nil
}
