package inventory

import (
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
)

// InventoryRecord is the materialized stock position for one product at one
// branch. Quantity is on-hand stock; ReservedQuantity is soft-held for
// pending orders and never moves the ledger.
type InventoryRecord struct {
	ProductID id.ID `db:"product_id" json:"productId"`
	BranchID  id.ID `db:"branch_id" json:"branchId"`

	Quantity         int64 `db:"quantity" json:"quantity"`
	ReservedQuantity int64 `db:"reserved_quantity" json:"reservedQuantity"`

	// LastRestocked is updated whenever a positive delta lands on the row.
	LastRestocked *time.Time `db:"last_restocked" json:"lastRestocked,omitempty"`

	// LastCountDate is updated only by manual adjustments.
	LastCountDate *time.Time `db:"last_count_date" json:"lastCountDate,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AvailableQuantity returns on-hand stock minus reservations.
func (r *InventoryRecord) AvailableQuantity() int64 {
	return r.Quantity - r.ReservedQuantity
}
