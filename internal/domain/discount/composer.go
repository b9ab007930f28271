package discount

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Entry is one applied rule's contribution to a line's discount.
type Entry struct {
	Name     string          `json:"name"`
	Fraction decimal.Decimal `json:"discount"`
}

// Result is the composed outcome for one offer and quantity.
type Result struct {
	DiscountedPrice decimal.Decimal
	Breakdown       []Entry
}

// Composer evaluates a fixed, ordered set of rules and combines their
// fractions additively: discounted = price * (1 - sum of fractions).
// The sum is not capped, so fractions past 1.0 produce a negative
// price. A rule that errors or panics contributes nothing and is
// logged; pricing of the remaining rules proceeds.
type Composer struct {
	rules  []Rule
	logger *slog.Logger
}

func NewComposer(logger *slog.Logger, rules ...Rule) *Composer {
	return &Composer{
		rules:  rules,
		logger: logger,
	}
}

// NewDefaultComposer registers the built-in rules in their canonical
// order: quantity, category, loyalty.
func NewDefaultComposer(logger *slog.Logger) *Composer {
	return NewComposer(logger,
		NewQuantityRule(),
		NewCategoryRule(),
		NewLoyaltyRule(),
	)
}

func (c *Composer) Compose(ec Context, offer Offer, quantity int) Result {
	breakdown := make([]Entry, 0, len(c.rules))
	combined := decimal.Zero

	for _, rule := range c.rules {
		fraction, applied := c.evaluate(rule, ec, offer, quantity)
		if !applied {
			continue
		}
		breakdown = append(breakdown, Entry{Name: rule.Name(), Fraction: fraction})
		combined = combined.Add(fraction)
	}

	discounted := offer.Price.Mul(decimal.NewFromInt(1).Sub(combined))

	return Result{
		DiscountedPrice: discounted,
		Breakdown:       breakdown,
	}
}

// evaluate runs one rule, converting errors and panics into
// not-applicable so a single broken rule cannot sink the whole
// submission.
func (c *Composer) evaluate(rule Rule, ec Context, offer Offer, quantity int) (fraction decimal.Decimal, applied bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("discount rule panicked",
				slog.String("rule", rule.Name()),
				slog.String("panic", fmt.Sprintf("%v", r)),
			)
			fraction, applied = decimal.Zero, false
		}
	}()

	ok, err := rule.IsApplicable(ec, offer, quantity)
	if err != nil {
		c.logger.Error("discount rule applicability check failed",
			slog.String("rule", rule.Name()),
			slog.String("error", err.Error()),
		)
		return decimal.Zero, false
	}
	if !ok {
		return decimal.Zero, false
	}

	f, err := rule.Apply(ec, offer, quantity)
	if err != nil {
		c.logger.Error("discount rule application failed",
			slog.String("rule", rule.Name()),
			slog.String("error", err.Error()),
		)
		return decimal.Zero, false
	}

	return f, true
}
