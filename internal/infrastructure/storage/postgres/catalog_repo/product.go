// Package catalog_repo provides PostgreSQL implementations for the
// product and branch catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/product"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID returns the product owned by companyID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(
		"id", "company_id", "name", "track_inventory",
		"low_stock_threshold", "price", "cost", "stock",
	).From(productsTable).
		Where(squirrel.Eq{
			"id":         productID,
			"company_id": companyID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// UpdateTotalStock recomputes the denormalized total from inventory
// records. Runs on the transaction in context so the aggregate is never
// visible out of sync with the mutation that changed it.
func (r *ProductRepo) UpdateTotalStock(ctx context.Context, productID id.ID) error {
	sql := `
		UPDATE products
		SET stock = COALESCE(
			(SELECT SUM(quantity) FROM inventory_records WHERE product_id = $1),
			0
		)
		WHERE id = $1
	`

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, productID)
	if err != nil {
		return fmt.Errorf("update total stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}

	return nil
}

// Ensure interface compliance.
var _ product.Repository = (*ProductRepo)(nil)
