//go:build unit

package order_test

import (
	"testing"

	"marketfill/internal/domain/discount"
	"marketfill/internal/domain/order"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func resolvedOffer(vendorID uuid.UUID, sku string, quantity int, unitPrice, unitFinalPrice string) order.ResolvedOffer {
	return order.ResolvedOffer{
		OfferID:        uuid.New(),
		ProductID:      uuid.New(),
		VendorID:       vendorID,
		SKU:            sku,
		Quantity:       quantity,
		UnitPrice:      price(unitPrice),
		UnitFinalPrice: price(unitFinalPrice),
		Breakdown:      []discount.Entry{},
	}
}

func TestSplit(t *testing.T) {
	t.Run("ベンダー毎に分割される", func(t *testing.T) {
		vendor1 := uuid.New()
		vendor2 := uuid.New()

		resolved := []order.ResolvedOffer{
			resolvedOffer(vendor1, "PROD-001", 5, "100.00", "100.00"),
			resolvedOffer(vendor2, "PROD-002", 3, "50.00", "47.50"),
			resolvedOffer(vendor2, "PROD-003", 2, "30.00", "30.00"),
		}

		drafts := order.Split(resolved)
		require.Len(t, drafts, 2)

		byVendor := map[uuid.UUID]order.SubOrderDraft{}
		for _, d := range drafts {
			byVendor[d.VendorID] = d
		}

		d1 := byVendor[vendor1]
		require.Len(t, d1.Lines, 1)
		assert.Equal(t, 5, d1.SubTotalQuantity)
		assert.True(t, price("100.00").Equal(d1.SubTotalPrice))

		d2 := byVendor[vendor2]
		require.Len(t, d2.Lines, 2)
		assert.Equal(t, 5, d2.SubTotalQuantity)
		assert.True(t, price("80.00").Equal(d2.SubTotalPrice))
		assert.True(t, price("77.50").Equal(d2.SubTotalFinalPrice))
	})

	t.Run("全ラインが漏れなく重複なく分配される", func(t *testing.T) {
		vendors := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		var resolved []order.ResolvedOffer
		for i := range 9 {
			resolved = append(resolved, resolvedOffer(vendors[i%3], "SKU", 1, "10.00", "10.00"))
		}

		drafts := order.Split(resolved)
		require.Len(t, drafts, 3)

		seen := map[uuid.UUID]int{}
		total := 0
		for _, d := range drafts {
			for _, line := range d.Lines {
				assert.Equal(t, d.VendorID, line.VendorID)
				seen[line.OfferID]++
				total++
			}
		}
		assert.Equal(t, len(resolved), total)
		for offerID, count := range seen {
			assert.Equal(t, 1, count, "offer %s appears %d times", offerID, count)
		}
	})

	t.Run("ベンダーID昇順で決定的に並ぶ", func(t *testing.T) {
		vendor1 := uuid.New()
		vendor2 := uuid.New()
		vendor3 := uuid.New()

		resolved := []order.ResolvedOffer{
			resolvedOffer(vendor3, "A", 1, "10.00", "10.00"),
			resolvedOffer(vendor1, "B", 1, "10.00", "10.00"),
			resolvedOffer(vendor2, "C", 1, "10.00", "10.00"),
		}

		first := order.Split(resolved)
		second := order.Split([]order.ResolvedOffer{resolved[2], resolved[0], resolved[1]})

		var firstOrder, secondOrder []string
		for _, d := range first {
			firstOrder = append(firstOrder, d.VendorID.String())
		}
		for _, d := range second {
			secondOrder = append(secondOrder, d.VendorID.String())
		}

		if diff := cmp.Diff(firstOrder, secondOrder); diff != "" {
			t.Errorf("vendor order mismatch (-want +got):\n%s", diff)
		}
		assert.IsIncreasing(t, firstOrder)
	})

	t.Run("空入力で空出力", func(t *testing.T) {
		assert.Empty(t, order.Split(nil))
	})
}

func TestComputeTotals(t *testing.T) {
	vendor := uuid.New()

	resolved := []order.ResolvedOffer{
		resolvedOffer(vendor, "PROD-001", 5, "100.00", "95.00"),
		resolvedOffer(vendor, "PROD-002", 3, "50.00", "50.00"),
	}

	totals := order.ComputeTotals(resolved)

	assert.True(t, price("150.00").Equal(totals.TotalPrice), "got %s", totals.TotalPrice)
	assert.True(t, price("145.00").Equal(totals.TotalFinalPrice), "got %s", totals.TotalFinalPrice)
	assert.Equal(t, 8, totals.TotalQuantity)
}
