// Package product provides the Product catalog collaborator.
// The inventory engine consumes products read-only, except for the
// denormalized total-stock column it maintains.
package product

import (
	"context"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
)

// Product represents the catalog fields the inventory engine cares about.
type Product struct {
	ID        id.ID `db:"id" json:"id"`
	CompanyID id.ID `db:"company_id" json:"companyId"`

	Name string `db:"name" json:"name"`

	// TrackInventory disables stock accounting when false; availability
	// checks report the unlimited sentinel for such products.
	TrackInventory bool `db:"track_inventory" json:"trackInventory"`

	// LowStockThreshold triggers low-stock alerts when available quantity
	// drops to or below it. Nil means no threshold configured.
	LowStockThreshold *int64 `db:"low_stock_threshold" json:"lowStockThreshold,omitempty"`

	Price types.Money  `db:"price" json:"price"`
	Cost  *types.Money `db:"cost" json:"cost,omitempty"`

	// Stock is the denormalized cross-branch total, maintained by the
	// engine inside every mutating transaction.
	Stock int64 `db:"stock" json:"stock"`
}

// UnitCost returns cost when known, falling back to price.
func (p *Product) UnitCost() types.Money {
	if p.Cost != nil {
		return *p.Cost
	}
	return p.Price
}

// Repository defines product lookups scoped to a company.
type Repository interface {
	// GetByID returns the product owned by companyID, or NotFound.
	GetByID(ctx context.Context, companyID, productID id.ID) (*Product, error)

	// UpdateTotalStock recomputes the denormalized stock total from
	// inventory records. Must run inside the mutating transaction.
	UpdateTotalStock(ctx context.Context, productID id.ID) error
}
