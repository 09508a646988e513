package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "inventory_movements"
	productsTable  = "products"
)

// MovementRepo implements inventory.MovementRepository. The ledger is
// append-only: there are no update or delete paths.
type MovementRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement ledger repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends one movement.
func (r *MovementRepo) Create(ctx context.Context, m *inventory.Movement) error {
	q := r.builder.Insert(movementsTable).
		Columns(
			"id", "product_id", "branch_id", "type", "quantity",
			"unit_cost", "reference", "reference_type", "notes",
			"performed_by", "created_at",
		).
		Values(
			m.ID, m.ProductID, m.BranchID, m.Type, m.Quantity,
			m.UnitCost, m.Reference, m.ReferenceType, m.Notes,
			m.PerformedBy, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List returns movements matching the filter, newest first, scoped to the
// filter's company via the product catalog.
func (r *MovementRepo) List(ctx context.Context, filter inventory.MovementFilter) (*inventory.MovementPage, error) {
	where := r.whereClause(filter)

	countQuery := r.builder.Select("COUNT(*)").
		From(movementsTable + " m").
		Join(productsTable + " p ON p.id = m.product_id").
		Where(where)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count movements: %w", err)
	}

	q := r.builder.Select(
		"m.id", "m.product_id", "m.branch_id", "m.type", "m.quantity",
		"m.unit_cost", "m.reference", "m.reference_type", "m.notes",
		"m.performed_by", "m.created_at",
	).
		From(movementsTable + " m").
		Join(productsTable + " p ON p.id = m.product_id").
		Where(where).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset()))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []inventory.Movement
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return &inventory.MovementPage{
		Movements: movements,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

func (r *MovementRepo) whereClause(filter inventory.MovementFilter) squirrel.And {
	where := squirrel.And{
		squirrel.Eq{"p.company_id": filter.CompanyID},
	}
	if filter.ProductID != nil {
		where = append(where, squirrel.Eq{"m.product_id": *filter.ProductID})
	}
	if filter.BranchID != nil {
		where = append(where, squirrel.Eq{"m.branch_id": *filter.BranchID})
	}
	if filter.Type != "" {
		where = append(where, squirrel.Eq{"m.type": filter.Type})
	}
	if filter.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"m.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"m.created_at": *filter.DateTo})
	}
	return where
}

// Ensure interface compliance.
var _ inventory.MovementRepository = (*MovementRepo)(nil)
