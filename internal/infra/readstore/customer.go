package readstore

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/pgconv"
	"marketfill/internal/usecase/queries"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	customerByEmailSQL = `
		SELECT id, email, password_hash, role
		FROM customers
		WHERE email = $1`

	customerByIDSQL = `
		SELECT id, email, role
		FROM customers
		WHERE id = $1`
)

type CustomerReadStore struct {
	db db.DBTX
}

func NewCustomerReadStore(dbtx db.DBTX) *CustomerReadStore {
	return &CustomerReadStore{db: dbtx}
}

func (r *CustomerReadStore) FindByEmail(ctx context.Context, email string) (*shared.CustomerSnapshot, error) {
	rows, err := r.db.Query(ctx, customerByEmailSQL, email)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find customer by email", err)
	}

	snapshot, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (shared.CustomerSnapshot, error) {
		var s shared.CustomerSnapshot
		err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Role)
		return s, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect customer by email", err)
	}

	return &snapshot, nil
}

func (r *CustomerReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedCustomerView, error) {
	rows, err := r.db.Query(ctx, customerByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find customer by ID", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (queries.AuthorizedCustomerView, error) {
		var v queries.AuthorizedCustomerView
		err := row.Scan(&v.ID, &v.Email, &v.Role)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect customer by ID", err)
	}

	return &view, nil
}
