package dto

import (
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/reports"
)

// InventoryLevelResponse is one stock position with derived flags.
type InventoryLevelResponse struct {
	ProductID         string     `json:"productId"`
	ProductName       string     `json:"productName"`
	BranchID          string     `json:"branchId"`
	BranchName        string     `json:"branchName"`
	Quantity          int64      `json:"quantity"`
	ReservedQuantity  int64      `json:"reservedQuantity"`
	AvailableQuantity int64      `json:"availableQuantity"`
	LowStockThreshold *int64     `json:"lowStockThreshold,omitempty"`
	IsLowStock        bool       `json:"isLowStock"`
	IsOutOfStock      bool       `json:"isOutOfStock"`
	LastRestocked     *time.Time `json:"lastRestocked,omitempty"`
	LastCountDate     *time.Time `json:"lastCountDate,omitempty"`
}

// FromLevel converts a domain inventory level.
func FromLevel(l reports.InventoryLevel) InventoryLevelResponse {
	return InventoryLevelResponse{
		ProductID:         l.ProductID.String(),
		ProductName:       l.ProductName,
		BranchID:          l.BranchID.String(),
		BranchName:        l.BranchName,
		Quantity:          l.Quantity,
		ReservedQuantity:  l.ReservedQuantity,
		AvailableQuantity: l.AvailableQuantity,
		LowStockThreshold: l.LowStockThreshold,
		IsLowStock:        l.IsLowStock,
		IsOutOfStock:      l.IsOutOfStock,
		LastRestocked:     l.LastRestocked,
		LastCountDate:     l.LastCountDate,
	}
}

// FromLevels converts a slice of domain levels.
func FromLevels(levels []reports.InventoryLevel) []InventoryLevelResponse {
	out := make([]InventoryLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, FromLevel(l))
	}
	return out
}

// ProductInventoryResponse is the per-branch breakdown for one product.
type ProductInventoryResponse struct {
	ProductID      string                   `json:"productId"`
	ProductName    string                   `json:"productName"`
	TotalQuantity  int64                    `json:"totalQuantity"`
	TotalReserved  int64                    `json:"totalReserved"`
	TotalAvailable int64                    `json:"totalAvailable"`
	Branches       []InventoryLevelResponse `json:"branches"`
}

// FromProductInventory converts a domain product inventory.
func FromProductInventory(p *reports.ProductInventory) ProductInventoryResponse {
	return ProductInventoryResponse{
		ProductID:      p.ProductID.String(),
		ProductName:    p.ProductName,
		TotalQuantity:  p.TotalQuantity,
		TotalReserved:  p.TotalReserved,
		TotalAvailable: p.TotalAvailable,
		Branches:       FromLevels(p.Branches),
	}
}

// ValuationResponse is the stock valuation summary.
type ValuationResponse struct {
	TotalValue         string `json:"totalValue"`
	TotalQuantity      int64  `json:"totalQuantity"`
	AverageCostPerUnit string `json:"averageCostPerUnit"`
	ItemsCount         int    `json:"itemsCount"`
	UnavailableCount   int    `json:"unavailableCount,omitempty"`
}

// FromValuation converts a domain valuation.
func FromValuation(v *reports.Valuation) ValuationResponse {
	return ValuationResponse{
		TotalValue:         v.TotalValue.String(),
		TotalQuantity:      v.TotalQuantity,
		AverageCostPerUnit: v.AverageCostPerUnit.String(),
		ItemsCount:         v.ItemsCount,
		UnavailableCount:   v.UnavailableCount,
	}
}
