package queries

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errs.New("customer not found")

type CustomerQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AuthorizedCustomerView, error)
}

type CustomerReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedCustomerView, error)
}

type customerQueriesImpl struct {
	readStore CustomerReadStore
}

func NewCustomerQueries(readStore CustomerReadStore) CustomerQueries {
	return &customerQueriesImpl{readStore: readStore}
}

func (q *customerQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AuthorizedCustomerView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return view, nil
}
