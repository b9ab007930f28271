package commands

import (
	"context"

	"marketfill/internal/domain/discount"
	"marketfill/internal/domain/order"
	"marketfill/internal/infra"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
)

// Upper bound on offers tried per cart line when conditional decrements
// keep losing races. The selection lock makes more than one pass rare.
const maxOfferAttempts = 5

// OfferResolver picks the cheapest sufficiently stocked offer for one
// cart line, reserves its stock inside the caller's transaction, and
// prices the line through the discount composer.
type OfferResolver struct {
	composer *discount.Composer
}

func NewOfferResolver(composer *discount.Composer) *OfferResolver {
	return &OfferResolver{composer: composer}
}

func (r *OfferResolver) Resolve(ctx context.Context, tx shared.Tx, ec discount.Context, line order.CartLine) (order.ResolvedOffer, error) {
	product, err := tx.Reads().ProductBySKU(ctx, line.SKU)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return order.ResolvedOffer{}, errs.Mark(&NoProductFoundError{SKU: line.SKU}, ErrProductNotFound)
		}
		return order.ResolvedOffer{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	excluded := make([]uuid.UUID, 0, maxOfferAttempts)
	for attempt := 0; attempt < maxOfferAttempts; attempt++ {
		offer, err := tx.Offers().CheapestWithStock(ctx, tx.DB(), product.ID, line.Quantity, excluded)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return order.ResolvedOffer{}, errs.Mark(
					&InsufficientStockError{SKU: line.SKU, Quantity: line.Quantity}, ErrInsufficientStock)
			}
			return order.ResolvedOffer{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		reserved, err := tx.Offers().ReserveStock(ctx, tx.DB(), offer.ID, line.Quantity)
		if err != nil {
			return order.ResolvedOffer{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !reserved {
			// Lost the decrement race; never retry the same offer.
			excluded = append(excluded, offer.ID)
			continue
		}

		composed := r.composer.Compose(ec, discount.Offer{
			Price:      offer.Price,
			CategoryID: product.CategoryID,
		}, line.Quantity)

		return order.ResolvedOffer{
			OfferID:        offer.ID,
			ProductID:      product.ID,
			VendorID:       offer.VendorID,
			SKU:            product.SKU,
			Quantity:       line.Quantity,
			UnitPrice:      offer.Price,
			UnitFinalPrice: composed.DiscountedPrice,
			Breakdown:      composed.Breakdown,
		}, nil
	}

	return order.ResolvedOffer{}, errs.Mark(
		&InsufficientStockError{SKU: line.SKU, Quantity: line.Quantity}, ErrInsufficientStock)
}
