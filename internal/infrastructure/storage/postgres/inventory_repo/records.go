// Package inventory_repo provides PostgreSQL implementations for the
// inventory record and movement ledger repositories.
package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
)

const recordsTable = "inventory_records"

// RecordRepo implements inventory.RecordRepository.
type RecordRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRecordRepo creates a new inventory record repository.
func NewRecordRepo(txm *postgres.TxManager) *RecordRepo {
	return &RecordRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure creates a zero-quantity record for the pair if none exists.
// The conditional insert is atomic, so two movements first touching the
// same pair cannot race into a duplicate key error.
func (r *RecordRepo) Ensure(ctx context.Context, productID, branchID id.ID) error {
	now := time.Now().UTC()
	q := r.builder.Insert(recordsTable).
		Columns("product_id", "branch_id", "quantity", "reserved_quantity", "created_at", "updated_at").
		Values(productID, branchID, 0, 0, now, now).
		Suffix("ON CONFLICT (product_id, branch_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("ensure record: %w", err)
	}
	return nil
}

// GetForUpdate returns the record with a pessimistic row lock. Must be
// called inside a transaction; the lock is held until commit.
func (r *RecordRepo) GetForUpdate(ctx context.Context, productID, branchID id.ID) (*inventory.InventoryRecord, error) {
	sql := `
		SELECT product_id, branch_id, quantity, reserved_quantity,
			   last_restocked, last_count_date, created_at, updated_at
		FROM inventory_records
		WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE
	`

	var record inventory.InventoryRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, productID, branchID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", productID)
		}
		return nil, fmt.Errorf("get record for update: %w", err)
	}

	return &record, nil
}

// Get returns the record without locking.
func (r *RecordRepo) Get(ctx context.Context, productID, branchID id.ID) (*inventory.InventoryRecord, error) {
	q := r.builder.Select(
		"product_id", "branch_id", "quantity", "reserved_quantity",
		"last_restocked", "last_count_date", "created_at", "updated_at",
	).From(recordsTable).
		Where(squirrel.Eq{
			"product_id": productID,
			"branch_id":  branchID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var record inventory.InventoryRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", productID)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &record, nil
}

// Update writes quantities and timestamps back to the locked row.
func (r *RecordRepo) Update(ctx context.Context, record *inventory.InventoryRecord) error {
	q := r.builder.Update(recordsTable).
		Set("quantity", record.Quantity).
		Set("reserved_quantity", record.ReservedQuantity).
		Set("last_restocked", record.LastRestocked).
		Set("last_count_date", record.LastCountDate).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"product_id": record.ProductID,
			"branch_id":  record.BranchID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory record", record.ProductID)
	}

	return nil
}

// Ensure interface compliance.
var _ inventory.RecordRepository = (*RecordRepo)(nil)
