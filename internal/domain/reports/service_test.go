package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	appctx "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/context"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/product"
)

type fakeRepo struct {
	rows       []LevelRow
	lastFilter LevelFilter
}

func (f *fakeRepo) ListLevels(_ context.Context, filter LevelFilter) ([]LevelRow, error) {
	f.lastFilter = filter
	var out []LevelRow
	for _, row := range f.rows {
		if filter.BranchID != nil && row.BranchID != *filter.BranchID {
			continue
		}
		if filter.ProductID != nil && row.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeProducts struct {
	products map[id.ID]*product.Product
}

func (f *fakeProducts) GetByID(_ context.Context, companyID, productID id.ID) (*product.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.CompanyID != companyID {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (f *fakeProducts) UpdateTotalStock(_ context.Context, _ id.ID) error {
	return nil
}

type fakeReadOnlyTx struct{ readOnlyCalls int }

func (f *fakeReadOnlyTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeReadOnlyTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	f.readOnlyCalls++
	return fn(ctx)
}

func strptr(s string) *string { return &s }

func int64ptr(v int64) *int64 { return &v }

func testContext(companyID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    "user-1",
		CompanyID: companyID.String(),
	})
}

func TestGetInventoryLevels_Flags(t *testing.T) {
	companyID := id.New()
	productA, productB := id.New(), id.New()
	branchA := id.New()

	repo := &fakeRepo{rows: []LevelRow{
		{
			ProductID: productA, ProductName: "Conditioner", BranchID: branchA, BranchName: "Downtown",
			Quantity: 5, ReservedQuantity: 1,
			LowStockThreshold: int64ptr(5),
			Price:             strptr("10.00"),
		},
		{
			ProductID: productB, ProductName: "Hair Oil", BranchID: branchA, BranchName: "Downtown",
			Quantity: 0, ReservedQuantity: 0,
			Price: strptr("20.00"),
		},
	}}
	svc := NewService(repo, &fakeProducts{}, &fakeReadOnlyTx{})

	levels, err := svc.GetInventoryLevels(testContext(companyID), nil, false)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	// available 5-1=4 is at or below the threshold of 5
	assert.Equal(t, int64(4), levels[0].AvailableQuantity)
	assert.True(t, levels[0].IsLowStock)
	assert.False(t, levels[0].IsOutOfStock)

	// no threshold configured, but zero on hand
	assert.False(t, levels[1].IsLowStock)
	assert.True(t, levels[1].IsOutOfStock)

	assert.Equal(t, companyID, repo.lastFilter.CompanyID)
}

func TestGetLowStockAlerts_FiltersHealthyRows(t *testing.T) {
	companyID := id.New()
	branchA := id.New()

	repo := &fakeRepo{rows: []LevelRow{
		{ProductID: id.New(), ProductName: "Healthy", BranchID: branchA, Quantity: 50, LowStockThreshold: int64ptr(5)},
		{ProductID: id.New(), ProductName: "Low", BranchID: branchA, Quantity: 3, LowStockThreshold: int64ptr(5)},
		{ProductID: id.New(), ProductName: "Out", BranchID: branchA, Quantity: 0},
	}}
	svc := NewService(repo, &fakeProducts{}, &fakeReadOnlyTx{})

	alerts, err := svc.GetLowStockAlerts(testContext(companyID), nil)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Low", alerts[0].ProductName)
	assert.Equal(t, "Out", alerts[1].ProductName)
}

func TestGetProductInventory(t *testing.T) {
	companyID := id.New()
	productID := id.New()
	branchA, branchB := id.New(), id.New()

	repo := &fakeRepo{rows: []LevelRow{
		{ProductID: productID, ProductName: "Shampoo", BranchID: branchA, BranchName: "Downtown", Quantity: 12, ReservedQuantity: 2},
		{ProductID: productID, ProductName: "Shampoo", BranchID: branchB, BranchName: "Mall", Quantity: 3},
		{ProductID: id.New(), ProductName: "Other", BranchID: branchA, Quantity: 99},
	}}
	products := &fakeProducts{products: map[id.ID]*product.Product{
		productID: {ID: productID, CompanyID: companyID, Name: "Shampoo"},
	}}
	txm := &fakeReadOnlyTx{}
	svc := NewService(repo, products, txm)

	result, err := svc.GetProductInventory(testContext(companyID), productID)
	require.NoError(t, err)
	assert.Equal(t, "Shampoo", result.ProductName)
	assert.Equal(t, int64(15), result.TotalQuantity)
	assert.Equal(t, int64(2), result.TotalReserved)
	assert.Equal(t, int64(13), result.TotalAvailable)
	require.Len(t, result.Branches, 2)

	// both the ownership check and the level query share one read-only tx
	assert.Equal(t, 1, txm.readOnlyCalls)
}

func TestGetProductInventory_UnownedProduct(t *testing.T) {
	companyID := id.New()
	productID := id.New()

	products := &fakeProducts{products: map[id.ID]*product.Product{
		productID: {ID: productID, CompanyID: id.New(), Name: "Foreign"},
	}}
	svc := NewService(&fakeRepo{}, products, &fakeReadOnlyTx{})

	_, err := svc.GetProductInventory(testContext(companyID), productID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetInventoryValuation(t *testing.T) {
	companyID := id.New()
	branchA := id.New()

	repo := &fakeRepo{rows: []LevelRow{
		// cost takes precedence over price
		{ProductID: id.New(), BranchID: branchA, Quantity: 10, Cost: strptr("6.00"), Price: strptr("10.00")},
		// falls back to price
		{ProductID: id.New(), BranchID: branchA, Quantity: 2, Price: strptr("4.00")},
	}}
	svc := NewService(repo, &fakeProducts{}, &fakeReadOnlyTx{})

	valuation, err := svc.GetInventoryValuation(testContext(companyID), nil)
	require.NoError(t, err)

	// 10*6.00 + 2*4.00
	assert.True(t, valuation.TotalValue.Equal(types.MustMoney("68.00")), "got %s", valuation.TotalValue)
	assert.Equal(t, int64(12), valuation.TotalQuantity)
	assert.Equal(t, 2, valuation.ItemsCount)
	// unweighted mean of 6.00 and 4.00
	assert.True(t, valuation.AverageCostPerUnit.Equal(types.MustMoney("5.00")), "got %s", valuation.AverageCostPerUnit)
	assert.Equal(t, 0, valuation.UnavailableCount)
}

func TestGetInventoryValuation_DegradesUnpricedRows(t *testing.T) {
	companyID := id.New()
	branchA := id.New()

	repo := &fakeRepo{rows: []LevelRow{
		{ProductID: id.New(), BranchID: branchA, Quantity: 5, Cost: strptr("2.00")},
		// no cost and no price: counted but never valued
		{ProductID: id.New(), BranchID: branchA, Quantity: 7},
		// malformed numeric text
		{ProductID: id.New(), BranchID: branchA, Quantity: 1, Price: strptr("not-a-number")},
	}}
	svc := NewService(repo, &fakeProducts{}, &fakeReadOnlyTx{})

	valuation, err := svc.GetInventoryValuation(testContext(companyID), nil)
	require.NoError(t, err)

	assert.True(t, valuation.TotalValue.Equal(types.MustMoney("10.00")), "got %s", valuation.TotalValue)
	assert.Equal(t, int64(13), valuation.TotalQuantity)
	assert.Equal(t, 3, valuation.ItemsCount)
	assert.Equal(t, 2, valuation.UnavailableCount)
	assert.True(t, valuation.AverageCostPerUnit.Equal(types.MustMoney("2.00")))
}

func TestGetInventoryLevels_MissingUserContext(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeProducts{}, &fakeReadOnlyTx{})

	_, err := svc.GetInventoryLevels(context.Background(), nil, false)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}
