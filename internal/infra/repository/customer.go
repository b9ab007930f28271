package repository

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
)

const createCustomerSQL = `
	INSERT INTO customers (email, password_hash, role)
	VALUES ($1, $2, $3)
	RETURNING id`

type CustomerRepository struct{}

func NewCustomerRepository() shared.CustomerRepository {
	return &CustomerRepository{}
}

func (r *CustomerRepository) Create(ctx context.Context, tx db.DBTX, email, passwordHash, role string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createCustomerSQL, email, passwordHash, role).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create customer", err)
	}
	return id, nil
}
