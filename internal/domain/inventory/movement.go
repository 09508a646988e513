// Package inventory provides the multi-branch inventory ledger engine:
// an append-only movement log, materialized per-(product, branch) records,
// and the stock operations that keep them consistent.
package inventory

import (
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementTransfer   MovementType = "TRANSFER"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// ReferenceType describes what a movement's reference points at.
type ReferenceType string

const (
	ReferencePurchase    ReferenceType = "purchase"
	ReferenceSale        ReferenceType = "sale"
	ReferenceAdjustment  ReferenceType = "adjustment"
	ReferenceTransferOut ReferenceType = "transfer_out"
	ReferenceTransferIn  ReferenceType = "transfer_in"
	ReferenceManual      ReferenceType = "manual"
)

// Movement is one immutable, signed quantity delta against a product at a
// branch. Movements are never updated or deleted; they are the audit trail
// and the source of truth for on-hand quantities.
type Movement struct {
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`
	BranchID  id.ID `db:"branch_id" json:"branchId"`

	Type MovementType `db:"type" json:"type"`

	// Quantity is the signed delta applied to on-hand stock.
	Quantity int64 `db:"quantity" json:"quantity"`

	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	// Reference ties the movement to its originating operation. Transfer
	// pairs share one reference.
	Reference     string        `db:"reference" json:"reference,omitempty"`
	ReferenceType ReferenceType `db:"reference_type" json:"referenceType,omitempty"`

	Notes       string `db:"notes" json:"notes,omitempty"`
	PerformedBy string `db:"performed_by" json:"performedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated UUIDv7 id.
func NewMovement(
	productID, branchID id.ID,
	movementType MovementType,
	quantity int64,
	unitCost *types.Money,
	reference string,
	referenceType ReferenceType,
	notes, performedBy string,
) Movement {
	return Movement{
		ID:            id.New(),
		ProductID:     productID,
		BranchID:      branchID,
		Type:          movementType,
		Quantity:      quantity,
		UnitCost:      unitCost,
		Reference:     reference,
		ReferenceType: referenceType,
		Notes:         notes,
		PerformedBy:   performedBy,
		CreatedAt:     time.Now().UTC(),
	}
}
