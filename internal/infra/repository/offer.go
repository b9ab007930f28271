package repository

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/pgconv"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Price then id keeps the tie-break deterministic. The row lock is
	// held until transaction end so contending submissions serialize.
	cheapestWithStockSQL = `
		SELECT id, product_id, vendor_id, price, quantity
		FROM offers
		WHERE product_id = $1
		  AND quantity >= $2
		  AND id != ALL($3)
		ORDER BY price ASC, id ASC
		LIMIT 1
		FOR UPDATE`

	// Conditional decrement. Zero rows affected means another
	// transaction drained the stock since selection.
	reserveStockSQL = `
		UPDATE offers
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`
)

type OfferRepository struct{}

func NewOfferRepository() shared.OfferRepository {
	return &OfferRepository{}
}

func (r *OfferRepository) CheapestWithStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int, excluded []uuid.UUID) (*shared.OfferSnapshot, error) {
	if excluded == nil {
		excluded = []uuid.UUID{}
	}

	rows, err := tx.Query(ctx, cheapestWithStockSQL, productID, quantity, excluded)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select cheapest offer", err)
	}

	snapshot, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (shared.OfferSnapshot, error) {
		var s shared.OfferSnapshot
		err := row.Scan(&s.ID, &s.ProductID, &s.VendorID, &s.Price, &s.Quantity)
		return s, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no offer with sufficient stock", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect cheapest offer", err)
	}

	return &snapshot, nil
}

func (r *OfferRepository) ReserveStock(ctx context.Context, tx db.DBTX, offerID uuid.UUID, quantity int) (bool, error) {
	tag, err := tx.Exec(ctx, reserveStockSQL, offerID, quantity)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve stock", err)
	}
	return tag.RowsAffected() == 1, nil
}
