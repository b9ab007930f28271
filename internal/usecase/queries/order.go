package queries

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrOrderAccess   = errs.New("order access denied")
)

type OrderQueries interface {
	// GetByID enforces ownership: customers only see their own orders.
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*OrderView, error)
	// GetByIDSystem bypasses ownership for internal reads
	// (idempotency replay, notification rendering).
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	GetSubOrderByIDSystem(ctx context.Context, id uuid.UUID) (*SubOrderView, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindSubOrderByID(ctx context.Context, id uuid.UUID) (*SubOrderView, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if view.CustomerID != actor {
		return nil, ErrOrderAccess
	}

	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) GetSubOrderByIDSystem(ctx context.Context, id uuid.UUID) (*SubOrderView, error) {
	view, err := q.repo.FindSubOrderByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}
