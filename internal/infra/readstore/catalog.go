package readstore

import (
	"context"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/pgconv"
	"marketfill/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

const productBySKUSQL = `
	SELECT id, sku, name, category_id
	FROM products
	WHERE sku = $1`

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

func (r *CatalogReadStore) FindBySKU(ctx context.Context, sku string) (*queries.ProductView, error) {
	rows, err := r.db.Query(ctx, productBySKUSQL, sku)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find product by sku", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (queries.ProductView, error) {
		var v queries.ProductView
		err := row.Scan(&v.ID, &v.SKU, &v.Name, &v.CategoryID)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect product by sku", err)
	}

	return &view, nil
}
