package inventory_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
)

func buildWhere(t *testing.T, filter inventory.MovementFilter) (string, []any) {
	t.Helper()
	repo := &MovementRepo{builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
	sql, args, err := repo.builder.Select("1").
		From(movementsTable + " m").
		Where(repo.whereClause(filter)).
		ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestWhereClause_CompanyScopeAlwaysPresent(t *testing.T) {
	companyID := id.New()

	sql, args := buildWhere(t, inventory.MovementFilter{CompanyID: companyID})

	assert.Contains(t, sql, "p.company_id = $1")
	assert.Equal(t, []any{companyID}, args)
}

func TestWhereClause_AllFilters(t *testing.T) {
	companyID := id.New()
	productID := id.New()
	branchID := id.New()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sql, args := buildWhere(t, inventory.MovementFilter{
		CompanyID: companyID,
		ProductID: &productID,
		BranchID:  &branchID,
		Type:      inventory.MovementTransfer,
		DateFrom:  &from,
		DateTo:    &to,
	})

	assert.Contains(t, sql, "m.product_id = $2")
	assert.Contains(t, sql, "m.branch_id = $3")
	assert.Contains(t, sql, "m.type = $4")
	assert.Contains(t, sql, "m.created_at >= $5")
	assert.Contains(t, sql, "m.created_at <= $6")
	assert.Len(t, args, 6)
}
