//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestCustomer(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	customerID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO customers (id, email, password_hash, role) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING",
		customerID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM customers WHERE email = $1", email).Scan(&customerID)
	}

	return customerID
}

func CreateTestVendor(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	vendorID := uuid.New()
	ctx := context.Background()
	email := strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "@vendor.test"

	tag, err := db.Exec(ctx, "INSERT INTO vendors (id, name, email) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		vendorID, name, email)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM vendors WHERE email = $1", email).Scan(&vendorID)
	}

	return vendorID
}

func CreateTestProduct(t *testing.T, db DBLike, sku string, categoryID int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO products (id, sku, name, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT (sku) DO NOTHING",
		productID, sku, sku, categoryID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM products WHERE sku = $1", sku).Scan(&productID)
	}

	return productID
}

func CreateTestOffer(t *testing.T, db DBLike, productID, vendorID uuid.UUID, price string, quantity int) uuid.UUID {
	t.Helper()

	offerID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO offers (id, product_id, vendor_id, price, quantity) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (product_id, vendor_id) DO UPDATE SET price = EXCLUDED.price, quantity = EXCLUDED.quantity",
		offerID, productID, vendorID, decimal.RequireFromString(price), quantity)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM offers WHERE product_id = $1 AND vendor_id = $2", productID, vendorID).Scan(&offerID)
	}

	return offerID
}

func OfferQuantity(t *testing.T, db DBLike, offerID uuid.UUID) int {
	t.Helper()

	var quantity int
	err := db.QueryRow(context.Background(), "SELECT quantity FROM offers WHERE id = $1", offerID).Scan(&quantity)
	require.NoError(t, err)
	return quantity
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO vendors (id, name, email) VALUES
		    (gen_random_uuid(), 'Acme Supply', 'orders@acme-supply.test'),
		    (gen_random_uuid(), 'Northwind Traders', 'orders@northwind.test')
		ON CONFLICT (email) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
