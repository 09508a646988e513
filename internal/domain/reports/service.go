package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	appctx "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/context"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/tx"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/product"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/pkg/logger"
)

// Service answers read-only inventory queries. It never mutates state:
// every query runs in a read-only transaction so a stray write fails at
// the store.
type Service struct {
	repo     Repository
	products product.Repository
	txm      tx.ReadOnlyManager
}

// NewService creates the reporting service.
func NewService(repo Repository, products product.Repository, txm tx.ReadOnlyManager) *Service {
	return &Service{
		repo:     repo,
		products: products,
		txm:      txm,
	}
}

// GetInventoryLevels returns stock positions for the caller's company,
// optionally scoped to one branch. With lowStockOnly only positions at or
// below their threshold, or out of stock, are returned.
func (s *Service) GetInventoryLevels(ctx context.Context, branchID *id.ID, lowStockOnly bool) ([]InventoryLevel, error) {
	companyID, err := s.companyID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.listLevels(ctx, LevelFilter{CompanyID: companyID, BranchID: branchID})
	if err != nil {
		return nil, err
	}

	levels := make([]InventoryLevel, 0, len(rows))
	for _, row := range rows {
		level := toLevel(row)
		if lowStockOnly && !level.IsLowStock && !level.IsOutOfStock {
			continue
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// GetLowStockAlerts returns positions needing replenishment.
func (s *Service) GetLowStockAlerts(ctx context.Context, branchID *id.ID) ([]InventoryLevel, error) {
	return s.GetInventoryLevels(ctx, branchID, true)
}

// GetProductInventory returns the per-branch breakdown for one product.
// Fails NotFound when the product is not owned by the caller's company.
func (s *Service) GetProductInventory(ctx context.Context, productID id.ID) (*ProductInventory, error) {
	companyID, err := s.companyID(ctx)
	if err != nil {
		return nil, err
	}

	var (
		prod *product.Product
		rows []LevelRow
	)
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		prod, err = s.products.GetByID(ctx, companyID, productID)
		if err != nil {
			return err
		}
		rows, err = s.repo.ListLevels(ctx, LevelFilter{CompanyID: companyID, ProductID: &productID})
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &ProductInventory{
		ProductID:   prod.ID,
		ProductName: prod.Name,
		Branches:    make([]InventoryLevel, 0, len(rows)),
	}
	for _, row := range rows {
		level := toLevel(row)
		result.TotalQuantity += level.Quantity
		result.TotalReserved += level.ReservedQuantity
		result.TotalAvailable += level.AvailableQuantity
		result.Branches = append(result.Branches, level)
	}
	return result, nil
}

// GetInventoryValuation values on-hand stock at cost, falling back to
// price where no cost is recorded. Rows whose unit cost cannot be
// determined are counted as unavailable rather than valued at a made-up
// number.
func (s *Service) GetInventoryValuation(ctx context.Context, branchID *id.ID) (*Valuation, error) {
	companyID, err := s.companyID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.listLevels(ctx, LevelFilter{CompanyID: companyID, BranchID: branchID})
	if err != nil {
		return nil, err
	}

	valuation := &Valuation{
		TotalValue:         types.Zero(),
		AverageCostPerUnit: types.Zero(),
	}
	costSum := types.Zero()
	valued := 0

	for _, row := range rows {
		valuation.ItemsCount++
		valuation.TotalQuantity += row.Quantity

		unitCost, ok := rowUnitCost(row)
		if !ok {
			valuation.UnavailableCount++
			logger.Warn(ctx, "skipping unpriced row in valuation",
				"product_id", row.ProductID,
				"branch_id", row.BranchID,
			)
			continue
		}

		valuation.TotalValue = valuation.TotalValue.Add(types.MoneyFromUnits(unitCost, row.Quantity))
		costSum = costSum.Add(unitCost)
		valued++
	}

	if valued > 0 {
		valuation.AverageCostPerUnit = costSum.Div(decimal.NewFromInt(int64(valued)))
	}
	return valuation, nil
}

// listLevels runs the level query in a read-only transaction.
func (s *Service) listLevels(ctx context.Context, filter LevelFilter) ([]LevelRow, error) {
	var rows []LevelRow
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ListLevels(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) companyID(ctx context.Context) (id.ID, error) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return id.Nil(), apperror.NewUnauthorized("authentication required")
	}
	companyID, err := id.Parse(user.CompanyID)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("invalid company scope")
	}
	return companyID, nil
}

func toLevel(row LevelRow) InventoryLevel {
	available := row.Quantity - row.ReservedQuantity
	level := InventoryLevel{
		ProductID:         row.ProductID,
		ProductName:       row.ProductName,
		BranchID:          row.BranchID,
		BranchName:        row.BranchName,
		Quantity:          row.Quantity,
		ReservedQuantity:  row.ReservedQuantity,
		AvailableQuantity: available,
		LowStockThreshold: row.LowStockThreshold,
		IsOutOfStock:      available <= 0,
		LastRestocked:     row.LastRestocked,
		LastCountDate:     row.LastCountDate,
	}
	if row.LowStockThreshold != nil && available <= *row.LowStockThreshold {
		level.IsLowStock = true
	}
	return level
}

// rowUnitCost resolves cost falling back to price, parsing the numeric
// text. Returns false when neither parses.
func rowUnitCost(row LevelRow) (types.Money, bool) {
	for _, raw := range []*string{row.Cost, row.Price} {
		if raw == nil {
			continue
		}
		if m, err := types.NewMoneyFromString(*raw); err == nil {
			return m, true
		}
	}
	return types.Zero(), false
}
