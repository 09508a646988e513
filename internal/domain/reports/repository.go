package reports

import (
	"context"
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
)

// LevelFilter scopes level queries. CompanyID is always enforced.
type LevelFilter struct {
	CompanyID id.ID
	BranchID  *id.ID
	ProductID *id.ID
}

// LevelRow is a raw joined row from inventory records and catalogs.
// Price and Cost carry the numeric columns as text so that a malformed
// value degrades one row instead of failing the whole report.
type LevelRow struct {
	ProductID         id.ID      `db:"product_id"`
	ProductName       string     `db:"product_name"`
	BranchID          id.ID      `db:"branch_id"`
	BranchName        string     `db:"branch_name"`
	Quantity          int64      `db:"quantity"`
	ReservedQuantity  int64      `db:"reserved_quantity"`
	LastRestocked     *time.Time `db:"last_restocked"`
	LastCountDate     *time.Time `db:"last_count_date"`
	TrackInventory    bool       `db:"track_inventory"`
	LowStockThreshold *int64     `db:"low_stock_threshold"`
	Price             *string    `db:"price"`
	Cost              *string    `db:"cost"`
}

// Repository reads joined inventory level rows.
type Repository interface {
	// ListLevels returns rows sorted ascending by quantity then product
	// name, so at-risk positions surface first.
	ListLevels(ctx context.Context, filter LevelFilter) ([]LevelRow, error)
}
