// Package reports provides read-only inventory queries: stock levels,
// low-stock alerts, per-product breakdowns and valuation.
package reports

import (
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
)

// InventoryLevel is one (product, branch) position enriched with catalog
// metadata and derived flags.
type InventoryLevel struct {
	ProductID   id.ID  `json:"productId"`
	ProductName string `json:"productName"`
	BranchID    id.ID  `json:"branchId"`
	BranchName  string `json:"branchName"`

	Quantity          int64 `json:"quantity"`
	ReservedQuantity  int64 `json:"reservedQuantity"`
	AvailableQuantity int64 `json:"availableQuantity"`

	LowStockThreshold *int64 `json:"lowStockThreshold,omitempty"`
	IsLowStock        bool   `json:"isLowStock"`
	IsOutOfStock      bool   `json:"isOutOfStock"`

	LastRestocked *time.Time `json:"lastRestocked,omitempty"`
	LastCountDate *time.Time `json:"lastCountDate,omitempty"`
}

// ProductInventory is the per-branch breakdown for one product.
type ProductInventory struct {
	ProductID   id.ID  `json:"productId"`
	ProductName string `json:"productName"`

	TotalQuantity  int64 `json:"totalQuantity"`
	TotalReserved  int64 `json:"totalReserved"`
	TotalAvailable int64 `json:"totalAvailable"`

	Branches []InventoryLevel `json:"branches"`
}

// Valuation is the stock valuation summary for a company or branch.
// AverageCostPerUnit is the arithmetic mean of per-row unit cost, not a
// quantity-weighted average.
type Valuation struct {
	TotalValue         types.Money `json:"totalValue"`
	TotalQuantity      int64       `json:"totalQuantity"`
	AverageCostPerUnit types.Money `json:"averageCostPerUnit"`
	ItemsCount         int         `json:"itemsCount"`

	// UnavailableCount is the number of rows excluded because their unit
	// cost could not be determined.
	UnavailableCount int `json:"unavailableCount,omitempty"`
}
