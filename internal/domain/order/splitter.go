package order

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubOrderDraft is one vendor's share of a resolved cart before
// persistence. Sub-totals are per-unit sums over the vendor's lines:
// raw unit prices, discounted unit prices, and quantities.
type SubOrderDraft struct {
	VendorID           uuid.UUID
	SubTotalPrice      decimal.Decimal
	SubTotalFinalPrice decimal.Decimal
	SubTotalQuantity   int
	Lines              []ResolvedOffer
}

// Totals are the order-level aggregates over every resolved line.
type Totals struct {
	TotalPrice      decimal.Decimal
	TotalFinalPrice decimal.Decimal
	TotalQuantity   int
}

// Split partitions resolved offers by vendor. Every resolved offer
// lands in exactly one draft; drafts are sorted by vendor id so the
// output is deterministic.
func Split(resolved []ResolvedOffer) []SubOrderDraft {
	byVendor := make(map[uuid.UUID][]ResolvedOffer)
	for _, ro := range resolved {
		byVendor[ro.VendorID] = append(byVendor[ro.VendorID], ro)
	}

	vendorIDs := make([]uuid.UUID, 0, len(byVendor))
	for vendorID := range byVendor {
		vendorIDs = append(vendorIDs, vendorID)
	}
	sort.Slice(vendorIDs, func(i, j int) bool {
		return vendorIDs[i].String() < vendorIDs[j].String()
	})

	drafts := make([]SubOrderDraft, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		lines := byVendor[vendorID]

		draft := SubOrderDraft{
			VendorID:           vendorID,
			SubTotalPrice:      decimal.Zero,
			SubTotalFinalPrice: decimal.Zero,
			Lines:              lines,
		}
		for _, line := range lines {
			draft.SubTotalPrice = draft.SubTotalPrice.Add(line.UnitPrice)
			draft.SubTotalFinalPrice = draft.SubTotalFinalPrice.Add(line.UnitFinalPrice)
			draft.SubTotalQuantity += line.Quantity
		}
		drafts = append(drafts, draft)
	}

	return drafts
}

// ComputeTotals aggregates order-level totals from the resolved lines,
// mirroring the sub-order computation.
func ComputeTotals(resolved []ResolvedOffer) Totals {
	totals := Totals{
		TotalPrice:      decimal.Zero,
		TotalFinalPrice: decimal.Zero,
	}
	for _, line := range resolved {
		totals.TotalPrice = totals.TotalPrice.Add(line.UnitPrice)
		totals.TotalFinalPrice = totals.TotalFinalPrice.Add(line.UnitFinalPrice)
		totals.TotalQuantity += line.Quantity
	}
	return totals
}
