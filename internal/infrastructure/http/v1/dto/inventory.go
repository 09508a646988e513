package dto

import (
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
)

// RecordMovementRequest is the raw ledger primitive. Quantity is signed.
type RecordMovementRequest struct {
	ProductID     string  `json:"productId" binding:"required,uuid"`
	BranchID      string  `json:"branchId" binding:"required,uuid"`
	Type          string  `json:"type" binding:"required"`
	Quantity      int64   `json:"quantity" binding:"required"`
	UnitCost      *string `json:"unitCost,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	ReferenceType string  `json:"referenceType,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	PerformedBy   string  `json:"performedBy,omitempty"`
}

// AddStockRequest receives stock into a branch.
type AddStockRequest struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	BranchID  string  `json:"branchId" binding:"required,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
	UnitCost  *string `json:"unitCost,omitempty"`
	Reference string  `json:"reference,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// RemoveStockRequest issues stock out of a branch.
type RemoveStockRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	BranchID  string `json:"branchId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AdjustStockRequest sets the on-hand quantity to a counted value.
// NewQuantity is a pointer so an explicit zero passes validation.
type AdjustStockRequest struct {
	ProductID   string `json:"productId" binding:"required,uuid"`
	BranchID    string `json:"branchId" binding:"required,uuid"`
	NewQuantity *int64 `json:"newQuantity" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Notes       string `json:"notes,omitempty"`
	PerformedBy string `json:"performedBy,omitempty"`
}

// TransferStockRequest moves stock between two branches.
type TransferStockRequest struct {
	ProductID    string `json:"productId" binding:"required,uuid"`
	FromBranchID string `json:"fromBranchId" binding:"required,uuid"`
	ToBranchID   string `json:"toBranchId" binding:"required,uuid"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Notes        string `json:"notes,omitempty"`
	PerformedBy  string `json:"performedBy,omitempty"`
}

// ReservationRequest reserves or releases held stock.
type ReservationRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	BranchID  string `json:"branchId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// MovementResponse is one ledger entry.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	BranchID      string    `json:"branchId"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	UnitCost      *string   `json:"unitCost,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	ReferenceType string    `json:"referenceType,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PerformedBy   string    `json:"performedBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromMovement converts a domain movement.
func FromMovement(m *inventory.Movement) MovementResponse {
	resp := MovementResponse{
		ID:            m.ID.String(),
		ProductID:     m.ProductID.String(),
		BranchID:      m.BranchID.String(),
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		ReferenceType: string(m.ReferenceType),
		Notes:         m.Notes,
		PerformedBy:   m.PerformedBy,
		CreatedAt:     m.CreatedAt,
	}
	if m.UnitCost != nil {
		cost := m.UnitCost.String()
		resp.UnitCost = &cost
	}
	return resp
}

// TransferResponse holds the balanced movement pair.
type TransferResponse struct {
	Reference string           `json:"reference"`
	Out       MovementResponse `json:"out"`
	In        MovementResponse `json:"in"`
}

// FromTransfer converts a domain transfer result.
func FromTransfer(t *inventory.TransferResult) TransferResponse {
	return TransferResponse{
		Reference: t.Out.Reference,
		Out:       FromMovement(t.Out),
		In:        FromMovement(t.In),
	}
}

// RecordResponse is the current stock position at a branch.
type RecordResponse struct {
	ProductID         string     `json:"productId"`
	BranchID          string     `json:"branchId"`
	Quantity          int64      `json:"quantity"`
	ReservedQuantity  int64      `json:"reservedQuantity"`
	AvailableQuantity int64      `json:"availableQuantity"`
	LastRestocked     *time.Time `json:"lastRestocked,omitempty"`
	LastCountDate     *time.Time `json:"lastCountDate,omitempty"`
}

// FromRecord converts a domain inventory record.
func FromRecord(r *inventory.InventoryRecord) RecordResponse {
	return RecordResponse{
		ProductID:         r.ProductID.String(),
		BranchID:          r.BranchID.String(),
		Quantity:          r.Quantity,
		ReservedQuantity:  r.ReservedQuantity,
		AvailableQuantity: r.AvailableQuantity(),
		LastRestocked:     r.LastRestocked,
		LastCountDate:     r.LastCountDate,
	}
}

// MovementListResponse is one page of ledger entries.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

// FromMovementPage converts a domain movement page.
func FromMovementPage(page *inventory.MovementPage) MovementListResponse {
	resp := MovementListResponse{
		Movements: make([]MovementResponse, 0, len(page.Movements)),
		Total:     page.Total,
		Page:      page.Page,
		Limit:     page.Limit,
	}
	for i := range page.Movements {
		resp.Movements = append(resp.Movements, FromMovement(&page.Movements[i]))
	}
	return resp
}
