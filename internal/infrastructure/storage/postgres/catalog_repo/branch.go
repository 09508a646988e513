package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/branch"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
)

const branchesTable = "branches"

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txm *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID returns the branch owned by companyID.
func (r *BranchRepo) GetByID(ctx context.Context, companyID, branchID id.ID) (*branch.Branch, error) {
	q := r.builder.Select("id", "company_id", "name").
		From(branchesTable).
		Where(squirrel.Eq{
			"id":         branchID,
			"company_id": companyID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b branch.Branch
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("branch", branchID)
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}

	return &b, nil
}

// Ensure interface compliance.
var _ branch.Repository = (*BranchRepo)(nil)
