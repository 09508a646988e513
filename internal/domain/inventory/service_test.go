package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	appctx "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/context"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/branch"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/product"
)

// --- In-memory fakes ---

type recordKey struct {
	productID id.ID
	branchID  id.ID
}

type memStore struct {
	records   map[recordKey]InventoryRecord
	movements []Movement
	products  map[id.ID]*product.Product
	branches  map[id.ID]*branch.Branch

	// lockOrder records the branch ids passed to GetForUpdate, in order.
	lockOrder []id.ID
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[recordKey]InventoryRecord),
		products: make(map[id.ID]*product.Product),
		branches: make(map[id.ID]*branch.Branch),
	}
}

type fakeRecords struct{ s *memStore }

func (f *fakeRecords) Ensure(_ context.Context, productID, branchID id.ID) error {
	key := recordKey{productID, branchID}
	if _, ok := f.s.records[key]; !ok {
		f.s.records[key] = InventoryRecord{ProductID: productID, BranchID: branchID}
	}
	return nil
}

func (f *fakeRecords) GetForUpdate(ctx context.Context, productID, branchID id.ID) (*InventoryRecord, error) {
	f.s.lockOrder = append(f.s.lockOrder, branchID)
	return f.Get(ctx, productID, branchID)
}

func (f *fakeRecords) Get(_ context.Context, productID, branchID id.ID) (*InventoryRecord, error) {
	record, ok := f.s.records[recordKey{productID, branchID}]
	if !ok {
		return nil, apperror.NewNotFound("inventory record", productID)
	}
	return &record, nil
}

func (f *fakeRecords) Update(_ context.Context, record *InventoryRecord) error {
	f.s.records[recordKey{record.ProductID, record.BranchID}] = *record
	return nil
}

type fakeMovements struct{ s *memStore }

func (f *fakeMovements) Create(_ context.Context, movement *Movement) error {
	f.s.movements = append(f.s.movements, *movement)
	return nil
}

func (f *fakeMovements) List(_ context.Context, filter MovementFilter) (*MovementPage, error) {
	var matched []Movement
	for i := len(f.s.movements) - 1; i >= 0; i-- {
		m := f.s.movements[i]
		if p, ok := f.s.products[m.ProductID]; !ok || p.CompanyID != filter.CompanyID {
			continue
		}
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.BranchID != nil && m.BranchID != *filter.BranchID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		matched = append(matched, m)
	}
	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &MovementPage{
		Movements: matched[start:end],
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

type fakeProducts struct{ s *memStore }

func (f *fakeProducts) GetByID(_ context.Context, companyID, productID id.ID) (*product.Product, error) {
	p, ok := f.s.products[productID]
	if !ok || p.CompanyID != companyID {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (f *fakeProducts) UpdateTotalStock(_ context.Context, productID id.ID) error {
	p, ok := f.s.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	var total int64
	for key, record := range f.s.records {
		if key.productID == productID {
			total += record.Quantity
		}
	}
	p.Stock = total
	return nil
}

type fakeBranches struct{ s *memStore }

func (f *fakeBranches) GetByID(_ context.Context, companyID, branchID id.ID) (*branch.Branch, error) {
	b, ok := f.s.branches[branchID]
	if !ok || b.CompanyID != companyID {
		return nil, apperror.NewNotFound("branch", branchID)
	}
	return b, nil
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAuditor struct{ events []AuditEvent }

func (f *fakeAuditor) Record(_ context.Context, event AuditEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAuditor) History(_ context.Context, productID id.ID, limit int) ([]AuditRecord, error) {
	var out []AuditRecord
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := f.events[i]
		if e.ProductID != productID {
			continue
		}
		out = append(out, AuditRecord{
			Action:    e.Action,
			ProductID: e.ProductID,
			BranchID:  e.BranchID,
			Details:   e.Details,
		})
	}
	return out, nil
}

// --- Test environment ---

type testEnv struct {
	ctx       context.Context
	engine    *Engine
	store     *memStore
	txm       *fakeTxManager
	audit     *fakeAuditor
	companyID id.ID
	productID id.ID
	branchA   id.ID
	branchB   id.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	companyID := id.New()
	productID := id.New()
	branchA := id.New()
	branchB := id.New()

	threshold := int64(5)
	cost := types.MustMoney("6.50")
	store.products[productID] = &product.Product{
		ID:                productID,
		CompanyID:         companyID,
		Name:              "Shampoo 500ml",
		TrackInventory:    true,
		LowStockThreshold: &threshold,
		Price:             types.MustMoney("10.00"),
		Cost:              &cost,
	}
	store.branches[branchA] = &branch.Branch{ID: branchA, CompanyID: companyID, Name: "Downtown"}
	store.branches[branchB] = &branch.Branch{ID: branchB, CompanyID: companyID, Name: "Mall"}

	txm := &fakeTxManager{}
	audit := &fakeAuditor{}
	engine := NewEngine(&fakeRecords{store}, &fakeMovements{store}, &fakeProducts{store}, &fakeBranches{store}, txm, audit)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    "user-1",
		CompanyID: companyID.String(),
	})

	return &testEnv{
		ctx:       ctx,
		engine:    engine,
		store:     store,
		txm:       txm,
		audit:     audit,
		companyID: companyID,
		productID: productID,
		branchA:   branchA,
		branchB:   branchB,
	}
}

func (e *testEnv) record(t *testing.T, branchID id.ID) InventoryRecord {
	t.Helper()
	record, ok := e.store.records[recordKey{e.productID, branchID}]
	require.True(t, ok, "inventory record missing")
	return record
}

// assertConservation verifies that every record quantity equals the sum of
// its ledger deltas and that the product total matches across branches.
func (e *testEnv) assertConservation(t *testing.T) {
	t.Helper()

	sums := make(map[recordKey]int64)
	for _, m := range e.store.movements {
		sums[recordKey{m.ProductID, m.BranchID}] += m.Quantity
	}
	for key, record := range e.store.records {
		assert.Equal(t, sums[key], record.Quantity, "ledger sum mismatch for branch %s", key.branchID)
	}

	var total int64
	for key, record := range e.store.records {
		if key.productID == e.productID {
			total += record.Quantity
		}
	}
	assert.Equal(t, total, e.store.products[e.productID].Stock, "product total stock mismatch")
}

// --- Tests ---

func TestAddStock(t *testing.T) {
	env := newTestEnv(t)

	cost := types.MustMoney("6.50")
	movement, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, &cost, "PO-1001", "initial receiving")
	require.NoError(t, err)

	assert.Equal(t, MovementIn, movement.Type)
	assert.Equal(t, int64(10), movement.Quantity)
	assert.Equal(t, ReferencePurchase, movement.ReferenceType)
	assert.Equal(t, "PO-1001", movement.Reference)
	assert.Equal(t, "user-1", movement.PerformedBy)

	record := env.record(t, env.branchA)
	assert.Equal(t, int64(10), record.Quantity)
	require.NotNil(t, record.LastRestocked)
	assert.Nil(t, record.LastCountDate)

	assert.Equal(t, int64(10), env.store.products[env.productID].Stock)
	assert.Equal(t, 1, env.txm.calls)
	env.assertConservation(t)
}

func TestRemoveStock(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)

	movement, err := env.engine.RemoveStock(env.ctx, env.productID, env.branchA, 4, "SALE-7", "")
	require.NoError(t, err)

	assert.Equal(t, MovementOut, movement.Type)
	assert.Equal(t, int64(-4), movement.Quantity)
	assert.Equal(t, ReferenceSale, movement.ReferenceType)

	assert.Equal(t, int64(6), env.record(t, env.branchA).Quantity)
	env.assertConservation(t)
}

func TestRemoveStock_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 5, nil, "", "")
	require.NoError(t, err)

	_, err = env.engine.RemoveStock(env.ctx, env.productID, env.branchA, 8, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	assert.Equal(t, int64(5), env.record(t, env.branchA).Quantity)
	env.assertConservation(t)
}

func TestRecordMovement_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		input MovementInput
	}{
		{"unknown type", MovementInput{ProductID: env.productID, BranchID: env.branchA, Type: "RETURN", Quantity: 1}},
		{"zero quantity", MovementInput{ProductID: env.productID, BranchID: env.branchA, Type: MovementIn, Quantity: 0}},
		{"negative IN", MovementInput{ProductID: env.productID, BranchID: env.branchA, Type: MovementIn, Quantity: -3}},
		{"positive OUT", MovementInput{ProductID: env.productID, BranchID: env.branchA, Type: MovementOut, Quantity: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.engine.RecordMovement(env.ctx, tc.input)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
	assert.Empty(t, env.store.movements)
}

func TestAdjustStock(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)

	movement, err := env.engine.AdjustStock(env.ctx, env.productID, env.branchA, 7, "recount", "", "")
	require.NoError(t, err)

	assert.Equal(t, MovementAdjustment, movement.Type)
	assert.Equal(t, int64(-3), movement.Quantity)
	assert.Contains(t, movement.Notes, "recount")
	assert.Contains(t, movement.Notes, "previous: 10")
	assert.Contains(t, movement.Notes, "new: 7")

	record := env.record(t, env.branchA)
	assert.Equal(t, int64(7), record.Quantity)
	require.NotNil(t, record.LastCountDate)

	require.Len(t, env.audit.events, 1)
	assert.Equal(t, "inventory.adjust", env.audit.events[0].Action)
	assert.Equal(t, int64(-3), env.audit.events[0].Details["delta"])

	env.assertConservation(t)
}

func TestAdjustStock_FirstCount(t *testing.T) {
	env := newTestEnv(t)

	// No prior movements; the record is created lazily with quantity 0.
	movement, err := env.engine.AdjustStock(env.ctx, env.productID, env.branchB, 12, "opening count", "", "")
	require.NoError(t, err)

	assert.Equal(t, int64(12), movement.Quantity)
	record := env.record(t, env.branchB)
	assert.Equal(t, int64(12), record.Quantity)
	require.NotNil(t, record.LastRestocked)
	env.assertConservation(t)
}

func TestTransferStock(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 20, nil, "", "")
	require.NoError(t, err)
	_, err = env.engine.AddStock(env.ctx, env.productID, env.branchB, 5, nil, "", "")
	require.NoError(t, err)

	result, err := env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchB, 8, "rebalance", "")
	require.NoError(t, err)

	assert.Equal(t, int64(-8), result.Out.Quantity)
	assert.Equal(t, int64(8), result.In.Quantity)
	assert.Equal(t, MovementTransfer, result.Out.Type)
	assert.Equal(t, MovementTransfer, result.In.Type)
	assert.Equal(t, ReferenceTransferOut, result.Out.ReferenceType)
	assert.Equal(t, ReferenceTransferIn, result.In.ReferenceType)
	assert.NotEmpty(t, result.Out.Reference)
	assert.Equal(t, result.Out.Reference, result.In.Reference)
	require.NotNil(t, result.Out.UnitCost)
	assert.True(t, result.Out.UnitCost.Equal(types.MustMoney("6.50")))

	assert.Equal(t, int64(12), env.record(t, env.branchA).Quantity)
	destination := env.record(t, env.branchB)
	assert.Equal(t, int64(13), destination.Quantity)
	require.NotNil(t, destination.LastRestocked)

	// Company-wide total is unchanged by the transfer.
	assert.Equal(t, int64(25), env.store.products[env.productID].Stock)

	require.Len(t, env.audit.events, 1)
	assert.Equal(t, "inventory.transfer", env.audit.events[0].Action)

	env.assertConservation(t)
}

func TestTransferStock_SameBranch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchA, 1, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidOperation))
}

func TestTransferStock_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 3, nil, "", "")
	require.NoError(t, err)

	_, err = env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchB, 8, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	assert.Equal(t, int64(3), env.record(t, env.branchA).Quantity)
	assert.Equal(t, int64(0), env.record(t, env.branchB).Quantity)
}

func TestTransferStock_LockOrdering(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 20, nil, "", "")
	require.NoError(t, err)
	_, err = env.engine.AddStock(env.ctx, env.productID, env.branchB, 20, nil, "", "")
	require.NoError(t, err)

	env.store.lockOrder = nil
	_, err = env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchB, 1, "", "")
	require.NoError(t, err)
	forward := append([]id.ID(nil), env.store.lockOrder...)

	env.store.lockOrder = nil
	_, err = env.engine.TransferStock(env.ctx, env.productID, env.branchB, env.branchA, 1, "", "")
	require.NoError(t, err)
	reverse := append([]id.ID(nil), env.store.lockOrder...)

	// Opposing transfers lock the same pair in the same ascending order.
	require.Len(t, forward, 2)
	assert.Equal(t, forward, reverse)
	assert.Negative(t, id.Compare(forward[0], forward[1]))
}

func TestReserveAndRelease(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)

	record, err := env.engine.ReserveStock(env.ctx, env.productID, env.branchA, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), record.ReservedQuantity)
	assert.Equal(t, int64(4), record.AvailableQuantity())

	_, err = env.engine.ReserveStock(env.ctx, env.productID, env.branchA, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientAvailableStock))

	record, err = env.engine.ReleaseReservation(env.ctx, env.productID, env.branchA, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.ReservedQuantity)

	// Reservations never touch the ledger.
	assert.Len(t, env.store.movements, 1)
	assert.Equal(t, int64(10), env.record(t, env.branchA).Quantity)
	env.assertConservation(t)
}

func TestReleaseReservation_ClampsAtZero(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)
	_, err = env.engine.ReserveStock(env.ctx, env.productID, env.branchA, 2)
	require.NoError(t, err)

	record, err := env.engine.ReleaseReservation(env.ctx, env.productID, env.branchA, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.ReservedQuantity)
}

func TestReleaseReservation_NoRecord(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.ReleaseReservation(env.ctx, env.productID, env.branchA, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// No zero record is created for a pair that never moved.
	_, ok := env.store.records[recordKey{env.productID, env.branchA}]
	assert.False(t, ok)
}

func TestCheckAvailability(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)
	_, err = env.engine.ReserveStock(env.ctx, env.productID, env.branchA, 4)
	require.NoError(t, err)

	result, err := env.engine.CheckAvailability(env.ctx, env.productID, env.branchA, 6)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, int64(10), result.CurrentStock)
	assert.Equal(t, int64(4), result.ReservedQuantity)
	assert.Equal(t, int64(6), result.AvailableQuantity)
	assert.Empty(t, result.Message)

	result, err = env.engine.CheckAvailability(env.ctx, env.productID, env.branchA, 7)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.NotEmpty(t, result.Message)
}

func TestCheckAvailability_UntrackedProduct(t *testing.T) {
	env := newTestEnv(t)
	env.store.products[env.productID].TrackInventory = false

	result, err := env.engine.CheckAvailability(env.ctx, env.productID, env.branchA, 1000)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, UnlimitedStock, result.CurrentStock)
	assert.Equal(t, UnlimitedStock, result.AvailableQuantity)
}

func TestCheckAvailability_NoRecordYet(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.engine.CheckAvailability(env.ctx, env.productID, env.branchA, 1)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, int64(0), result.CurrentStock)
}

func TestOwnership_UnownedProduct(t *testing.T) {
	env := newTestEnv(t)

	otherCtx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    "intruder",
		CompanyID: id.New().String(),
	})

	_, err := env.engine.AddStock(otherCtx, env.productID, env.branchA, 10, nil, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, env.store.movements)
}

func TestOwnership_MissingUserContext(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(context.Background(), env.productID, env.branchA, 10, nil, "", "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestGetMovements(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 1, nil, "", "")
		require.NoError(t, err)
	}
	_, err := env.engine.RemoveStock(env.ctx, env.productID, env.branchA, 2, "", "")
	require.NoError(t, err)

	page, err := env.engine.GetMovements(env.ctx, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageLimit, page.Limit)
	// Newest first.
	assert.Equal(t, MovementOut, page.Movements[0].Type)

	outOnly, err := env.engine.GetMovements(env.ctx, MovementFilter{Type: MovementOut})
	require.NoError(t, err)
	assert.Equal(t, int64(1), outOnly.Total)

	small, err := env.engine.GetMovements(env.ctx, MovementFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), small.Total)
	assert.Len(t, small.Movements, 1)
}

func TestGetMovements_LimitClamped(t *testing.T) {
	env := newTestEnv(t)

	page, err := env.engine.GetMovements(env.ctx, MovementFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxPageLimit, page.Limit)
}

func TestGetMovements_UnknownType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.GetMovements(env.ctx, MovementFilter{Type: "RETURN"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestGetAuditHistory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)
	_, err = env.engine.AdjustStock(env.ctx, env.productID, env.branchA, 8, "recount", "", "")
	require.NoError(t, err)
	_, err = env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchB, 3, "", "")
	require.NoError(t, err)

	history, err := env.engine.GetAuditHistory(env.ctx, env.productID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first.
	assert.Equal(t, "inventory.transfer", history[0].Action)
	assert.Equal(t, "inventory.adjust", history[1].Action)
}

func TestGetAuditHistory_UnownedProduct(t *testing.T) {
	env := newTestEnv(t)

	otherCtx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    "intruder",
		CompanyID: id.New().String(),
	})

	_, err := env.engine.GetAuditHistory(otherCtx, env.productID, 10)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestLedgerConservation_Sequence(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AddStock(env.ctx, env.productID, env.branchA, 10, nil, "", "")
	require.NoError(t, err)
	env.assertConservation(t)

	_, err = env.engine.RemoveStock(env.ctx, env.productID, env.branchA, 3, "", "")
	require.NoError(t, err)
	env.assertConservation(t)

	_, err = env.engine.AdjustStock(env.ctx, env.productID, env.branchA, 12, "recount", "", "")
	require.NoError(t, err)
	env.assertConservation(t)

	_, err = env.engine.TransferStock(env.ctx, env.productID, env.branchA, env.branchB, 5, "", "")
	require.NoError(t, err)
	env.assertConservation(t)

	_, err = env.engine.ReserveStock(env.ctx, env.productID, env.branchB, 2)
	require.NoError(t, err)
	env.assertConservation(t)

	_, err = env.engine.ReleaseReservation(env.ctx, env.productID, env.branchB, 2)
	require.NoError(t, err)
	env.assertConservation(t)

	assert.Equal(t, int64(7), env.record(t, env.branchA).Quantity)
	assert.Equal(t, int64(5), env.record(t, env.branchB).Quantity)
	assert.Equal(t, int64(12), env.store.products[env.productID].Stock)
}
