package readstore

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/pgconv"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const idempotencyByKeySQL = `
	SELECT key, customer_id, status, order_id
	FROM idempotency_keys
	WHERE key = $1 AND customer_id = $2`

type IdempotencyReadStore struct{}

func NewIdempotencyReadStore() *IdempotencyReadStore {
	return &IdempotencyReadStore{}
}

func (r *IdempotencyReadStore) Get(ctx context.Context, dbtx db.DBTX, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rows, err := dbtx.Query(ctx, idempotencyByKeySQL, key, customerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (shared.IdempotencyRecord, error) {
		var rec shared.IdempotencyRecord
		err := row.Scan(&rec.Key, &rec.CustomerID, &rec.Status, &rec.OrderID)
		return rec, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect idempotency key", err)
	}

	return &record, nil
}
