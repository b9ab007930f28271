package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketfill/internal/domain/catalog"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/pkg/password"
)

type vendorJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productJSON struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

type offerJSON struct {
	SKU      string          `json:"sku"`
	Vendor   string          `json:"vendor"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type catalogJSON struct {
	Vendors  []vendorJSON  `json:"vendors"`
	Products []productJSON `json:"products"`
	Offers   []offerJSON   `json:"offers"`
}

func main() {
	var (
		databaseURL  string
		catalogFile  string
		demoEmail    string
		demoPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&demoEmail, "demo-email", "demo@example.com", "demo customer email")
	flag.StringVar(&demoPassword, "demo-password", "demo-password", "demo customer password")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, demoEmail, demoPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, demoEmail, demoPassword string) error {
	slog.Info("connecting to database")

	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return errs.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("applying schema")

	if err := db.ApplySchema(ctx, pool); err != nil {
		return errs.Wrap(err, "apply schema")
	}

	catalog, err := readCatalog(catalogFile)
	if err != nil {
		return errs.Wrap(err, "read catalog")
	}

	if err := seedCatalog(ctx, pool, catalog); err != nil {
		return errs.Wrap(err, "seed catalog")
	}

	if err := seedDemoCustomer(ctx, pool, demoEmail, demoPassword); err != nil {
		return errs.Wrap(err, "seed demo customer")
	}

	return nil
}

func readCatalog(path string) (*catalogJSON, error) {
	slog.Info("reading catalog file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, errs.Wrap(err, "parse catalog JSON")
	}
	return &catalog, nil
}

const upsertVendorSQL = `
INSERT INTO vendors (name, email)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
`

const upsertProductSQL = `
INSERT INTO products (sku, name, category_id)
VALUES ($1, $2, $3)
ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id
`

const upsertOfferSQL = `
INSERT INTO offers (product_id, vendor_id, price, quantity)
SELECT p.id, v.id, $3, $4
FROM products p, vendors v
WHERE p.sku = $1 AND v.name = $2
ON CONFLICT (product_id, vendor_id) DO UPDATE
SET price = EXCLUDED.price, quantity = EXCLUDED.quantity
`

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, data *catalogJSON) error {
	slog.Info("upserting vendors", slog.Int("count", len(data.Vendors)))

	for _, v := range data.Vendors {
		vendor, err := catalog.NewVendor(uuid.New(), v.Name, v.Email)
		if err != nil {
			return errs.Wrap(err, "invalid vendor "+v.Name)
		}
		if _, err := pool.Exec(ctx, upsertVendorSQL, vendor.Name(), vendor.Email()); err != nil {
			return errs.Wrap(err, "upsert vendor "+vendor.Name())
		}
	}

	slog.Info("upserting products", slog.Int("count", len(data.Products)))

	for _, p := range data.Products {
		sku, err := catalog.NewSKU(p.SKU)
		if err != nil {
			return errs.Wrap(err, "invalid sku "+p.SKU)
		}
		product, err := catalog.NewProduct(uuid.New(), sku, p.Name, p.CategoryID)
		if err != nil {
			return errs.Wrap(err, "invalid product "+p.SKU)
		}
		if _, err := pool.Exec(ctx, upsertProductSQL, product.SKU().String(), product.Name(), product.CategoryID()); err != nil {
			return errs.Wrap(err, "upsert product "+p.SKU)
		}
	}

	slog.Info("upserting offers", slog.Int("count", len(data.Offers)))

	for _, o := range data.Offers {
		offer, err := catalog.NewOffer(uuid.New(), uuid.Nil, uuid.Nil, o.Price, o.Quantity)
		if err != nil {
			return errs.Wrap(err, "invalid offer "+o.SKU+"/"+o.Vendor)
		}
		if _, err := pool.Exec(ctx, upsertOfferSQL, o.SKU, o.Vendor, offer.Price(), offer.Quantity()); err != nil {
			return errs.Wrap(err, "upsert offer "+o.SKU+"/"+o.Vendor)
		}
	}

	return nil
}

const upsertDemoCustomerSQL = `
INSERT INTO customers (email, password_hash, role)
VALUES ($1, $2, 'customer')
ON CONFLICT (email) DO NOTHING
`

func seedDemoCustomer(ctx context.Context, pool *pgxpool.Pool, email, rawPassword string) error {
	slog.Info("seeding demo customer", slog.String("email", email))

	hashed, err := password.HashPassword(rawPassword)
	if err != nil {
		return errs.Wrap(err, "hash demo password")
	}

	if _, err := pool.Exec(ctx, upsertDemoCustomerSQL, email, hashed); err != nil {
		return errs.Wrap(err, "insert demo customer")
	}
	return nil
}
