// Package branch provides the Branch registry collaborator.
// Branches are physical locations holding stock; the engine consumes
// them read-only.
package branch

import (
	"context"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
)

// Branch represents a company location.
type Branch struct {
	ID        id.ID  `db:"id" json:"id"`
	CompanyID id.ID  `db:"company_id" json:"companyId"`
	Name      string `db:"name" json:"name"`
}

// Repository defines branch lookups scoped to a company.
type Repository interface {
	// GetByID returns the branch owned by companyID, or NotFound.
	GetByID(ctx context.Context, companyID, branchID id.ID) (*Branch, error)
}
