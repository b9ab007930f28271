//go:build unit

package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"
	"time"

	"marketfill/internal/domain/discount"
	"marketfill/internal/domain/order"
	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/clock"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/usecase/commands"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ----------------------------------------------------------------------------
// In-memory fakes backing the transaction surface
// ----------------------------------------------------------------------------

type fakeOffer struct {
	shared.OfferSnapshot
	Reserved int
}

type createdOrder struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Cart       []order.CartLine
	Totals     order.Totals
}

type createdSubOrder struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Draft    order.SubOrderDraft
	LineRows []order.ResolvedOffer
}

type createdJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type idempotencyRow struct {
	Status  string
	OrderID *uuid.UUID
}

type fakeStore struct {
	products    map[string]*shared.ProductSnapshot
	offers      []*fakeOffer
	reserveFail map[uuid.UUID]int // offer id -> remaining forced losses

	orders      []*createdOrder
	subOrders   []*createdSubOrder
	jobs        []createdJob
	idempotency map[uuid.UUID]*idempotencyRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[string]*shared.ProductSnapshot),
		reserveFail: make(map[uuid.UUID]int),
		idempotency: make(map[uuid.UUID]*idempotencyRow),
	}
}

func (s *fakeStore) addProduct(sku string, categoryID int) uuid.UUID {
	id := uuid.New()
	s.products[sku] = &shared.ProductSnapshot{ID: id, SKU: sku, Name: sku, CategoryID: categoryID}
	return id
}

func (s *fakeStore) addOffer(productID, vendorID uuid.UUID, price string, quantity int) uuid.UUID {
	id := uuid.New()
	s.offers = append(s.offers, &fakeOffer{
		OfferSnapshot: shared.OfferSnapshot{
			ID:        id,
			ProductID: productID,
			VendorID:  vendorID,
			Price:     decimal.RequireFromString(price),
			Quantity:  quantity,
		},
	})
	return id
}

type fakeOfferRepo struct{ store *fakeStore }

func (r *fakeOfferRepo) CheapestWithStock(_ context.Context, _ db.DBTX, productID uuid.UUID, quantity int, excluded []uuid.UUID) (*shared.OfferSnapshot, error) {
	skip := make(map[uuid.UUID]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}

	candidates := make([]*fakeOffer, 0)
	for _, o := range r.store.offers {
		if o.ProductID == productID && o.Quantity >= quantity && !skip[o.ID] {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return nil, infra.WrapRepoErr("offer not found", errors.New("no rows"), infra.KindNotFound)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Price.Equal(candidates[j].Price) {
			return candidates[i].Price.LessThan(candidates[j].Price)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})
	snapshot := candidates[0].OfferSnapshot
	return &snapshot, nil
}

func (r *fakeOfferRepo) ReserveStock(_ context.Context, _ db.DBTX, offerID uuid.UUID, quantity int) (bool, error) {
	if r.store.reserveFail[offerID] > 0 {
		r.store.reserveFail[offerID]--
		return false, nil
	}
	for _, o := range r.store.offers {
		if o.ID == offerID {
			if o.Quantity < quantity {
				return false, nil
			}
			o.Quantity -= quantity
			o.Reserved += quantity
			return true, nil
		}
	}
	return false, nil
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) CreateOrder(_ context.Context, _ db.DBTX, customerID uuid.UUID, cart []order.CartLine, totals order.Totals) (uuid.UUID, error) {
	id := uuid.New()
	r.store.orders = append(r.store.orders, &createdOrder{ID: id, CustomerID: customerID, Cart: cart, Totals: totals})
	return id, nil
}

func (r *fakeOrderRepo) CreateSubOrder(_ context.Context, _ db.DBTX, orderID uuid.UUID, draft order.SubOrderDraft) (uuid.UUID, error) {
	id := uuid.New()
	r.store.subOrders = append(r.store.subOrders, &createdSubOrder{ID: id, OrderID: orderID, Draft: draft})
	return id, nil
}

func (r *fakeOrderRepo) CreateOrderLine(_ context.Context, _ db.DBTX, subOrderID uuid.UUID, line order.ResolvedOffer) error {
	for _, so := range r.store.subOrders {
		if so.ID == subOrderID {
			so.LineRows = append(so.LineRows, line)
			return nil
		}
	}
	return errors.New("sub order not found")
}

type fakeIdempotencyRepo struct{ store *fakeStore }

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, _ db.DBTX, key, _ uuid.UUID) (bool, error) {
	if _, exists := r.store.idempotency[key]; exists {
		return false, nil
	}
	r.store.idempotency[key] = &idempotencyRow{Status: "processing"}
	return true, nil
}

func (r *fakeIdempotencyRepo) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, _, orderID uuid.UUID) error {
	row, exists := r.store.idempotency[key]
	if !exists {
		return errors.New("idempotency key not found")
	}
	row.Status = "completed"
	row.OrderID = &orderID
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.store.jobs = append(r.store.jobs, createdJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

type fakeCustomerRepo struct{}

func (r *fakeCustomerRepo) Create(_ context.Context, _ db.DBTX, _, _, _ string) (uuid.UUID, error) {
	return uuid.New(), nil
}

type fakeReads struct{ store *fakeStore }

func (r *fakeReads) ProductBySKU(_ context.Context, sku string) (*shared.ProductSnapshot, error) {
	p, ok := r.store.products[sku]
	if !ok {
		return nil, infra.WrapRepoErr("product not found", errors.New("no rows"), infra.KindNotFound)
	}
	return p, nil
}

func (r *fakeReads) RecentOrderCount(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return 0, nil
}

func (r *fakeReads) CustomerByEmail(_ context.Context, _ string) (*shared.CustomerSnapshot, error) {
	return nil, infra.WrapRepoErr("customer not found", errors.New("no rows"), infra.KindNotFound)
}

func (r *fakeReads) IdempotencyByKey(_ context.Context, key, _ uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, ok := r.store.idempotency[key]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", errors.New("no rows"), infra.KindNotFound)
	}
	return &shared.IdempotencyRecord{Key: key, Status: row.Status, OrderID: row.OrderID}, nil
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) Offers() shared.OfferRepository               { return &fakeOfferRepo{store: t.store} }
func (t *fakeTx) Orders() shared.OrderRepository               { return &fakeOrderRepo{store: t.store} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return &fakeIdempotencyRepo{store: t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{store: t.store} }
func (t *fakeTx) Customers() shared.CustomerRepository         { return &fakeCustomerRepo{} }
func (t *fakeTx) Reads() shared.CommandReads                   { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeLoyalty struct {
	count       int
	countErr    error
	invalidated []uuid.UUID
}

func (l *fakeLoyalty) OrderCount(_ context.Context, _ uuid.UUID) (int, error) {
	return l.count, l.countErr
}

func (l *fakeLoyalty) Invalidate(customerID uuid.UUID) {
	l.invalidated = append(l.invalidated, customerID)
}

// ----------------------------------------------------------------------------
// Suite
// ----------------------------------------------------------------------------

type FulfillmentTestSuite struct {
	suite.Suite
	store      *fakeStore
	loyalty    *fakeLoyalty
	usecase    commands.FulfillmentCommands
	customerID uuid.UUID
}

func (s *FulfillmentTestSuite) SetupTest() {
	s.store = newFakeStore()
	s.loyalty = &fakeLoyalty{}
	s.customerID = uuid.New()

	logger := slog.New(slog.DiscardHandler)
	resolver := commands.NewOfferResolver(discount.NewDefaultComposer(logger))
	s.usecase = commands.NewFulfillmentUseCase(
		&fakeUoW{store: s.store},
		resolver,
		s.loyalty,
		clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		5*time.Second,
	)
}

func TestFulfillmentSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentTestSuite))
}

func (s *FulfillmentTestSuite) TestProcessCart() {
	s.Run("cheapest offer wins and stock is reserved", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		vendorA := uuid.New()
		vendorB := uuid.New()
		s.store.addOffer(productID, vendorA, "12.50", 100)
		cheapID := s.store.addOffer(productID, vendorB, "11.90", 100)

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 2}}, nil)
		s.Require().NoError(err)

		s.Require().Len(result.Purchased, 1)
		s.Equal("WIDGET-STD", result.Purchased[0].SKU)
		s.True(result.Purchased[0].UnitPrice.Equal(decimal.RequireFromString("11.90")))

		var cheap *fakeOffer
		for _, o := range s.store.offers {
			if o.ID == cheapID {
				cheap = o
			}
		}
		s.Require().NotNil(cheap)
		s.Equal(2, cheap.Reserved)
		s.Equal(98, cheap.Quantity)
	})

	s.Run("lost reservation race excludes the offer and falls to the next", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		cheapID := s.store.addOffer(productID, uuid.New(), "10.00", 100)
		s.store.addOffer(productID, uuid.New(), "12.00", 100)
		s.store.reserveFail[cheapID] = 1

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 1}}, nil)
		s.Require().NoError(err)

		s.Require().Len(result.Purchased, 1)
		s.True(result.Purchased[0].UnitPrice.Equal(decimal.RequireFromString("12.00")))
	})

	s.Run("insufficient stock reports the sku and quantity", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "12.50", 3)

		_, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 10}}, nil)
		s.Require().Error(err)
		s.True(errs.Is(err, commands.ErrInsufficientStock))

		var stockErr *commands.InsufficientStockError
		s.Require().ErrorAs(err, &stockErr)
		s.Equal("WIDGET-STD", stockErr.SKU)
		s.Equal(10, stockErr.Quantity)
		s.Empty(s.store.orders)
	})

	s.Run("unknown sku fails with product not found", func() {
		s.SetupTest()
		_, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "NO-SUCH-SKU", Quantity: 1}}, nil)
		s.Require().Error(err)
		s.True(errs.Is(err, commands.ErrProductNotFound))
	})

	s.Run("empty cart is rejected", func() {
		s.SetupTest()
		_, err := s.usecase.ProcessCart(context.Background(), s.customerID, nil, nil)
		s.Require().Error(err)
		s.True(errs.Is(err, commands.ErrEmptyCart))
	})

	s.Run("lines split into per-vendor sub orders with notification jobs", func() {
		s.SetupTest()
		widgetID := s.store.addProduct("WIDGET-STD", 1)
		gadgetID := s.store.addProduct("GADGET-MINI", 1)
		gizmoID := s.store.addProduct("GIZMO-LITE", 1)
		vendorA := uuid.New()
		vendorB := uuid.New()
		s.store.addOffer(widgetID, vendorA, "10.00", 100)
		s.store.addOffer(gadgetID, vendorA, "20.00", 100)
		s.store.addOffer(gizmoID, vendorB, "30.00", 100)

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{
				{SKU: "WIDGET-STD", Quantity: 1},
				{SKU: "GADGET-MINI", Quantity: 2},
				{SKU: "GIZMO-LITE", Quantity: 3},
			}, nil)
		s.Require().NoError(err)
		s.Len(result.Purchased, 3)

		s.Require().Len(s.store.subOrders, 2)
		lineTotal := 0
		for _, so := range s.store.subOrders {
			s.Equal(s.store.orders[0].ID, so.OrderID)
			lineTotal += len(so.LineRows)
		}
		s.Equal(3, lineTotal)

		s.Require().Len(s.store.jobs, 2)
		for _, job := range s.store.jobs {
			s.Equal("vendor_email", job.Kind)
			s.Equal("sub_order_created", job.Topic)
			s.NotEmpty(job.Payload)
		}

		s.Require().Len(s.store.orders, 1)
		s.True(s.store.orders[0].Totals.TotalPrice.Equal(decimal.RequireFromString("60.00")))
		s.Equal(6, s.store.orders[0].Totals.TotalQuantity)
	})

	s.Run("quantity discount applies from ten units", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "100.00", 100)

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 10}}, nil)
		s.Require().NoError(err)

		s.Require().Len(result.Purchased, 1)
		s.True(result.Purchased[0].UnitFinalPrice.Equal(decimal.RequireFromString("95.00")),
			"got %s", result.Purchased[0].UnitFinalPrice)
	})

	s.Run("loyalty lookup failure prices without loyalty", func() {
		s.SetupTest()
		s.loyalty.countErr = errors.New("cache backend down")
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "50.00", 100)

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 1}}, nil)
		s.Require().NoError(err)
		s.True(result.Purchased[0].UnitFinalPrice.Equal(decimal.RequireFromString("50.00")))
	})

	s.Run("loyalty cache is invalidated after commit", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "10.00", 100)

		_, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 1}}, nil)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{s.customerID}, s.loyalty.invalidated)
	})
}

func (s *FulfillmentTestSuite) TestProcessCartIdempotency() {
	s.Run("first request completes the key", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "10.00", 100)
		key := uuid.New()

		result, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 1}}, &key)
		s.Require().NoError(err)
		s.False(result.IsReplayed)

		row := s.store.idempotency[key]
		s.Require().NotNil(row)
		s.Equal("completed", row.Status)
		s.Require().NotNil(row.OrderID)
		s.Equal(result.OrderID, *row.OrderID)
	})

	s.Run("replay of completed key returns the original order without re-reserving stock", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		offerID := s.store.addOffer(productID, uuid.New(), "10.00", 100)
		key := uuid.New()

		first, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 5}}, &key)
		s.Require().NoError(err)

		second, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 5}}, &key)
		s.Require().NoError(err)

		s.True(second.IsReplayed)
		s.Equal(first.OrderID, second.OrderID)
		s.Empty(second.Purchased)

		for _, o := range s.store.offers {
			if o.ID == offerID {
				s.Equal(5, o.Reserved)
			}
		}
		s.Len(s.store.orders, 1)
	})

	s.Run("resend while processing conflicts", func() {
		s.SetupTest()
		productID := s.store.addProduct("WIDGET-STD", 1)
		s.store.addOffer(productID, uuid.New(), "10.00", 100)
		key := uuid.New()
		s.store.idempotency[key] = &idempotencyRow{Status: "processing"}

		_, err := s.usecase.ProcessCart(context.Background(), s.customerID,
			[]order.CartLine{{SKU: "WIDGET-STD", Quantity: 1}}, &key)
		s.Require().Error(err)
		s.True(errs.Is(err, commands.ErrIdempotencyInProgress))
	})
}

func TestComputeTotalsUnitSums(t *testing.T) {
	resolved := []order.ResolvedOffer{
		{UnitPrice: decimal.RequireFromString("10.00"), UnitFinalPrice: decimal.RequireFromString("9.50"), Quantity: 4},
		{UnitPrice: decimal.RequireFromString("20.00"), UnitFinalPrice: decimal.RequireFromString("20.00"), Quantity: 1},
	}

	totals := order.ComputeTotals(resolved)
	require.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, totals.TotalFinalPrice.Equal(decimal.RequireFromString("29.50")))
	assert.Equal(t, 5, totals.TotalQuantity)
}
