// Package report_repo provides PostgreSQL implementations for the
// read-only reporting repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/reports"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
)

// LevelsRepo implements reports.Repository.
type LevelsRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLevelsRepo creates a new levels repository.
func NewLevelsRepo(txm *postgres.TxManager) *LevelsRepo {
	return &LevelsRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListLevels joins inventory records with the product and branch catalogs.
// Numeric columns come back as text so one malformed value degrades one
// row, not the whole report. Ascending quantity surfaces at-risk
// positions first.
func (r *LevelsRepo) ListLevels(ctx context.Context, filter reports.LevelFilter) ([]reports.LevelRow, error) {
	q := r.builder.Select(
		"ir.product_id",
		"p.name AS product_name",
		"ir.branch_id",
		"b.name AS branch_name",
		"ir.quantity",
		"ir.reserved_quantity",
		"ir.last_restocked",
		"ir.last_count_date",
		"p.track_inventory",
		"p.low_stock_threshold",
		"p.price::text AS price",
		"p.cost::text AS cost",
	).
		From("inventory_records ir").
		Join("products p ON p.id = ir.product_id").
		Join("branches b ON b.id = ir.branch_id").
		Where(squirrel.Eq{"p.company_id": filter.CompanyID}).
		OrderBy("ir.quantity ASC", "p.name ASC")

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"ir.branch_id": *filter.BranchID})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"ir.product_id": *filter.ProductID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.LevelRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ reports.Repository = (*LevelsRepo)(nil)
