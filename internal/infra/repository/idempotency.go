package repository

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	tryInsertIdempotencySQL = `
		INSERT INTO idempotency_keys (key, customer_id, status)
		VALUES ($1, $2, 'processing')
		ON CONFLICT (key) DO NOTHING`

	completeIdempotencySQL = `
		UPDATE idempotency_keys
		SET status = 'completed', order_id = $3, updated_at = now()
		WHERE key = $1 AND customer_id = $2`
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() shared.IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryInsert claims a key. The conflict clause keeps a duplicate from
// aborting the enclosing transaction; a false return means the key was
// already claimed and the caller maps it to a replay.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key, customerID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, tryInsertIdempotencySQL, key, customerID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, customerID, orderID uuid.UUID) error {
	_, err := tx.Exec(ctx, completeIdempotencySQL, key, customerID, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	return nil
}
