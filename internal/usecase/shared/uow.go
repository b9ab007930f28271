package shared

import (
	"context"
	"time"

	"marketfill/internal/domain/order"
	"marketfill/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Offers() OfferRepository
	Orders() OrderRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Customers() CustomerRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductBySKU(ctx context.Context, sku string) (*ProductSnapshot, error)
	RecentOrderCount(ctx context.Context, customerID uuid.UUID, since time.Time) (int, error)
	CustomerByEmail(ctx context.Context, email string) (*CustomerSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*IdempotencyRecord, error)
}

type OfferRepository interface {
	// CheapestWithStock picks the lowest-priced offer for the product
	// that still has the requested quantity, skipping excluded offer
	// ids, and locks the row until transaction end.
	CheapestWithStock(ctx context.Context, tx db.DBTX, productID uuid.UUID, quantity int, excluded []uuid.UUID) (*OfferSnapshot, error)
	// ReserveStock decrements quantity iff enough stock remains.
	// Returns false without error when another transaction drained the
	// offer first.
	ReserveStock(ctx context.Context, tx db.DBTX, offerID uuid.UUID, quantity int) (bool, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx db.DBTX, customerID uuid.UUID, cart []order.CartLine, totals order.Totals) (uuid.UUID, error)
	CreateSubOrder(ctx context.Context, tx db.DBTX, orderID uuid.UUID, draft order.SubOrderDraft) (uuid.UUID, error)
	CreateOrderLine(ctx context.Context, tx db.DBTX, subOrderID uuid.UUID, line order.ResolvedOffer) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx db.DBTX, key, customerID uuid.UUID) (bool, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, customerID, orderID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type CustomerRepository interface {
	Create(ctx context.Context, tx db.DBTX, email, passwordHash, role string) (uuid.UUID, error)
}

type ProductSnapshot struct {
	ID         uuid.UUID
	SKU        string
	Name       string
	CategoryID int
}

type OfferSnapshot struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	VendorID  uuid.UUID
	Price     decimal.Decimal
	Quantity  int
}

type CustomerSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
}

type IdempotencyRecord struct {
	Key        uuid.UUID
	CustomerID uuid.UUID
	Status     string
	OrderID    *uuid.UUID
}
