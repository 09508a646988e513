package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	appctx "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/context"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/tx"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/branch"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/catalogs/product"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/pkg/logger"
)

// UnlimitedStock is the sentinel returned by availability checks for
// products that do not track inventory.
const UnlimitedStock int64 = -1

// Engine implements the stock operations over inventory records and the
// movement ledger. Every mutating method runs its full
// validate-read-write-append-aggregate sequence inside one transaction.
type Engine struct {
	records   RecordRepository
	movements MovementRepository
	products  product.Repository
	branches  branch.Repository
	txm       tx.Manager
	auditor   Auditor
}

// NewEngine creates the stock operations engine. The auditor is optional;
// pass nil to disable audit logging.
func NewEngine(
	records RecordRepository,
	movements MovementRepository,
	products product.Repository,
	branches branch.Repository,
	txm tx.Manager,
	auditor Auditor,
) *Engine {
	return &Engine{
		records:   records,
		movements: movements,
		products:  products,
		branches:  branches,
		txm:       txm,
		auditor:   auditor,
	}
}

// MovementInput describes a single ledger entry to record.
type MovementInput struct {
	ProductID id.ID
	BranchID  id.ID
	Type      MovementType

	// Quantity is the signed delta. IN requires a positive value, OUT a
	// negative one.
	Quantity int64

	UnitCost      *types.Money
	Reference     string
	ReferenceType ReferenceType
	Notes         string
	PerformedBy   string
}

// TransferResult holds the balanced movement pair produced by a transfer.
type TransferResult struct {
	Out *Movement `json:"out"`
	In  *Movement `json:"in"`
}

// Availability is the result of a read-only availability check.
type Availability struct {
	Available         bool   `json:"available"`
	CurrentStock      int64  `json:"currentStock"`
	ReservedQuantity  int64  `json:"reservedQuantity"`
	AvailableQuantity int64  `json:"availableQuantity"`
	Message           string `json:"message,omitempty"`
}

// RecordMovement is the ledger primitive. It verifies product and branch
// ownership, locks the inventory record, applies the signed delta and
// appends a movement, all inside one transaction.
func (e *Engine) RecordMovement(ctx context.Context, input MovementInput) (*Movement, error) {
	if !input.Type.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown movement type %q", input.Type))
	}
	if input.Quantity == 0 {
		return nil, apperror.NewValidation("quantity must be non-zero")
	}
	if input.Type == MovementIn && input.Quantity < 0 {
		return nil, apperror.NewValidation("IN movement requires a positive quantity")
	}
	if input.Type == MovementOut && input.Quantity > 0 {
		return nil, apperror.NewValidation("OUT movement requires a negative quantity")
	}

	var movement *Movement
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.verifyOwnership(ctx, input.ProductID, input.BranchID); err != nil {
			return err
		}

		var err error
		movement, _, err = e.applyMovement(ctx, input)
		if err != nil {
			return err
		}

		return e.products.UpdateTotalStock(ctx, input.ProductID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded stock movement",
		"movement_id", movement.ID,
		"product_id", input.ProductID,
		"branch_id", input.BranchID,
		"type", input.Type,
		"quantity", input.Quantity,
	)

	return movement, nil
}

// AddStock receives quantity units into a branch (IN movement).
func (e *Engine) AddStock(
	ctx context.Context,
	productID, branchID id.ID,
	quantity int64,
	unitCost *types.Money,
	reference, notes string,
) (*Movement, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}
	return e.RecordMovement(ctx, MovementInput{
		ProductID:     productID,
		BranchID:      branchID,
		Type:          MovementIn,
		Quantity:      quantity,
		UnitCost:      unitCost,
		Reference:     reference,
		ReferenceType: ReferencePurchase,
		Notes:         notes,
	})
}

// RemoveStock issues quantity units out of a branch (OUT movement).
func (e *Engine) RemoveStock(
	ctx context.Context,
	productID, branchID id.ID,
	quantity int64,
	reference, notes string,
) (*Movement, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}
	return e.RecordMovement(ctx, MovementInput{
		ProductID:     productID,
		BranchID:      branchID,
		Type:          MovementOut,
		Quantity:      -quantity,
		Reference:     reference,
		ReferenceType: ReferenceSale,
		Notes:         notes,
	})
}

// AdjustStock sets the on-hand quantity to the counted value and records
// the difference as an ADJUSTMENT movement. The read of the current
// quantity and the write happen under one row lock so concurrent adjusts
// cannot lose updates.
func (e *Engine) AdjustStock(
	ctx context.Context,
	productID, branchID id.ID,
	newQuantity int64,
	reason, notes, performedBy string,
) (*Movement, error) {
	if newQuantity < 0 {
		return nil, apperror.NewValidation("new quantity cannot be negative")
	}

	var movement *Movement
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.verifyOwnership(ctx, productID, branchID); err != nil {
			return err
		}

		if err := e.records.Ensure(ctx, productID, branchID); err != nil {
			return fmt.Errorf("ensure record: %w", err)
		}
		record, err := e.records.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return fmt.Errorf("lock record: %w", err)
		}

		previous := record.Quantity
		delta := newQuantity - previous

		now := time.Now().UTC()
		record.Quantity = newQuantity
		record.LastCountDate = &now
		if delta > 0 {
			record.LastRestocked = &now
		}
		if err := e.records.Update(ctx, record); err != nil {
			return fmt.Errorf("update record: %w", err)
		}

		adjustNotes := fmt.Sprintf("%s (previous: %d, new: %d)", reason, previous, newQuantity)
		if notes != "" {
			adjustNotes += "; " + notes
		}

		m := NewMovement(
			productID, branchID,
			MovementAdjustment,
			delta,
			nil,
			"",
			ReferenceAdjustment,
			adjustNotes,
			e.actor(ctx, performedBy),
		)
		if err := e.movements.Create(ctx, &m); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		movement = &m

		if err := e.products.UpdateTotalStock(ctx, productID); err != nil {
			return err
		}

		return e.audit(ctx, AuditEvent{
			Action:    "inventory.adjust",
			ProductID: productID,
			BranchID:  branchID,
			Details: map[string]any{
				"reason":   reason,
				"previous": previous,
				"new":      newQuantity,
				"delta":    delta,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjusted stock",
		"product_id", productID,
		"branch_id", branchID,
		"new_quantity", newQuantity,
		"delta", movement.Quantity,
		"reason", reason,
	)

	return movement, nil
}

// TransferStock moves quantity units between two branches as a balanced
// movement pair sharing one reference. Records are locked in ascending
// branch id order so opposing transfers on the same pair cannot deadlock.
func (e *Engine) TransferStock(
	ctx context.Context,
	productID, fromBranchID, toBranchID id.ID,
	quantity int64,
	notes, performedBy string,
) (*TransferResult, error) {
	if fromBranchID == toBranchID {
		return nil, apperror.NewInvalidOperation("cannot transfer stock to the same branch")
	}
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	var result *TransferResult
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		companyID, err := e.companyID(ctx)
		if err != nil {
			return err
		}
		prod, err := e.products.GetByID(ctx, companyID, productID)
		if err != nil {
			return err
		}
		if _, err := e.branches.GetByID(ctx, companyID, fromBranchID); err != nil {
			return err
		}
		if _, err := e.branches.GetByID(ctx, companyID, toBranchID); err != nil {
			return err
		}

		if err := e.records.Ensure(ctx, productID, fromBranchID); err != nil {
			return fmt.Errorf("ensure source record: %w", err)
		}
		if err := e.records.Ensure(ctx, productID, toBranchID); err != nil {
			return fmt.Errorf("ensure destination record: %w", err)
		}

		// Lock both rows in a deterministic order.
		first, second := fromBranchID, toBranchID
		if id.Compare(second, first) < 0 {
			first, second = second, first
		}
		locked := make(map[id.ID]*InventoryRecord, 2)
		for _, branchID := range []id.ID{first, second} {
			record, err := e.records.GetForUpdate(ctx, productID, branchID)
			if err != nil {
				return fmt.Errorf("lock record at %s: %w", branchID, err)
			}
			locked[branchID] = record
		}
		source, destination := locked[fromBranchID], locked[toBranchID]

		if source.Quantity < quantity {
			return apperror.NewInsufficientStock(productID.String(), quantity, source.Quantity)
		}

		now := time.Now().UTC()
		source.Quantity -= quantity
		destination.Quantity += quantity
		destination.LastRestocked = &now

		if err := e.records.Update(ctx, source); err != nil {
			return fmt.Errorf("update source record: %w", err)
		}
		if err := e.records.Update(ctx, destination); err != nil {
			return fmt.Errorf("update destination record: %w", err)
		}

		unitCost := prod.UnitCost()
		reference := id.New().String()
		actor := e.actor(ctx, performedBy)

		out := NewMovement(
			productID, fromBranchID,
			MovementTransfer,
			-quantity,
			&unitCost,
			reference,
			ReferenceTransferOut,
			notes,
			actor,
		)
		in := NewMovement(
			productID, toBranchID,
			MovementTransfer,
			quantity,
			&unitCost,
			reference,
			ReferenceTransferIn,
			notes,
			actor,
		)
		if err := e.movements.Create(ctx, &out); err != nil {
			return fmt.Errorf("create outbound movement: %w", err)
		}
		if err := e.movements.Create(ctx, &in); err != nil {
			return fmt.Errorf("create inbound movement: %w", err)
		}
		result = &TransferResult{Out: &out, In: &in}

		if err := e.products.UpdateTotalStock(ctx, productID); err != nil {
			return err
		}

		return e.audit(ctx, AuditEvent{
			Action:    "inventory.transfer",
			ProductID: productID,
			BranchID:  fromBranchID,
			Details: map[string]any{
				"to_branch_id": toBranchID.String(),
				"quantity":     quantity,
				"reference":    reference,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transferred stock",
		"product_id", productID,
		"from_branch_id", fromBranchID,
		"to_branch_id", toBranchID,
		"quantity", quantity,
		"reference", result.Out.Reference,
	)

	return result, nil
}

// ReserveStock places a hold on available stock. The hold does not move
// the ledger; it only excludes the quantity from further reservation.
func (e *Engine) ReserveStock(ctx context.Context, productID, branchID id.ID, quantity int64) (*InventoryRecord, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	var record *InventoryRecord
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.verifyOwnership(ctx, productID, branchID); err != nil {
			return err
		}

		if err := e.records.Ensure(ctx, productID, branchID); err != nil {
			return fmt.Errorf("ensure record: %w", err)
		}
		var err error
		record, err = e.records.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return fmt.Errorf("lock record: %w", err)
		}

		available := record.AvailableQuantity()
		if available < quantity {
			return apperror.NewInsufficientAvailableStock(productID.String(), quantity, available)
		}

		record.ReservedQuantity += quantity
		return e.records.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "reserved stock",
		"product_id", productID,
		"branch_id", branchID,
		"quantity", quantity,
		"reserved_quantity", record.ReservedQuantity,
	)

	return record, nil
}

// ReleaseReservation removes a hold. Releasing more than is currently
// reserved clamps at zero and logs a warning; over-release usually means
// a double release upstream. Records are created on first movement, so a
// pair that never moved has nothing to release and returns NotFound.
func (e *Engine) ReleaseReservation(ctx context.Context, productID, branchID id.ID, quantity int64) (*InventoryRecord, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	var record *InventoryRecord
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.verifyOwnership(ctx, productID, branchID); err != nil {
			return err
		}

		var err error
		record, err = e.records.GetForUpdate(ctx, productID, branchID)
		if err != nil {
			return err
		}

		if quantity > record.ReservedQuantity {
			logger.Warn(ctx, "release exceeds reserved quantity, clamping to zero",
				"product_id", productID,
				"branch_id", branchID,
				"requested", quantity,
				"reserved_quantity", record.ReservedQuantity,
			)
			record.ReservedQuantity = 0
		} else {
			record.ReservedQuantity -= quantity
		}

		return e.records.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "released reservation",
		"product_id", productID,
		"branch_id", branchID,
		"quantity", quantity,
		"reserved_quantity", record.ReservedQuantity,
	)

	return record, nil
}

// CheckAvailability reports whether the requested quantity can be
// reserved at a branch. Products that do not track inventory are always
// available with the unlimited sentinel.
func (e *Engine) CheckAvailability(ctx context.Context, productID, branchID id.ID, requested int64) (*Availability, error) {
	if requested <= 0 {
		return nil, apperror.NewValidation("requested quantity must be positive")
	}

	prod, err := e.verifyOwnership(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}

	if !prod.TrackInventory {
		return &Availability{
			Available:         true,
			CurrentStock:      UnlimitedStock,
			AvailableQuantity: UnlimitedStock,
			Message:           "inventory tracking disabled for this product",
		}, nil
	}

	record, err := e.records.Get(ctx, productID, branchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			record = &InventoryRecord{ProductID: productID, BranchID: branchID}
		} else {
			return nil, err
		}
	}

	available := record.AvailableQuantity()
	result := &Availability{
		Available:         available >= requested,
		CurrentStock:      record.Quantity,
		ReservedQuantity:  record.ReservedQuantity,
		AvailableQuantity: available,
	}
	if !result.Available {
		result.Message = fmt.Sprintf("only %d of %d requested units available", available, requested)
	}
	return result, nil
}

// GetAuditHistory returns the recorded adjustment and transfer events for
// a product, newest first.
func (e *Engine) GetAuditHistory(ctx context.Context, productID id.ID, limit int) ([]AuditRecord, error) {
	companyID, err := e.companyID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := e.products.GetByID(ctx, companyID, productID); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if e.auditor == nil {
		return nil, nil
	}
	return e.auditor.History(ctx, productID, limit)
}

// GetMovements returns a page of ledger entries scoped to the caller's
// company, newest first.
func (e *Engine) GetMovements(ctx context.Context, filter MovementFilter) (*MovementPage, error) {
	companyID, err := e.companyID(ctx)
	if err != nil {
		return nil, err
	}
	filter.CompanyID = companyID

	if filter.ProductID != nil {
		if _, err := e.products.GetByID(ctx, companyID, *filter.ProductID); err != nil {
			return nil, err
		}
	}
	if filter.BranchID != nil {
		if _, err := e.branches.GetByID(ctx, companyID, *filter.BranchID); err != nil {
			return nil, err
		}
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown movement type %q", filter.Type))
	}

	filter.Normalize()
	return e.movements.List(ctx, filter)
}

// applyMovement locks the record, applies the signed delta and appends the
// ledger entry. Must run inside a transaction after ownership checks.
func (e *Engine) applyMovement(ctx context.Context, in MovementInput) (*Movement, *InventoryRecord, error) {
	if err := e.records.Ensure(ctx, in.ProductID, in.BranchID); err != nil {
		return nil, nil, fmt.Errorf("ensure record: %w", err)
	}
	record, err := e.records.GetForUpdate(ctx, in.ProductID, in.BranchID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock record: %w", err)
	}

	newQuantity := record.Quantity + in.Quantity
	if newQuantity < 0 {
		return nil, nil, apperror.NewInsufficientStock(in.ProductID.String(), -in.Quantity, record.Quantity)
	}

	record.Quantity = newQuantity
	if in.Quantity > 0 {
		now := time.Now().UTC()
		record.LastRestocked = &now
	}
	if err := e.records.Update(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("update record: %w", err)
	}

	movement := NewMovement(
		in.ProductID, in.BranchID,
		in.Type,
		in.Quantity,
		in.UnitCost,
		in.Reference,
		e.referenceType(in),
		in.Notes,
		e.actor(ctx, in.PerformedBy),
	)
	if err := e.movements.Create(ctx, &movement); err != nil {
		return nil, nil, fmt.Errorf("create movement: %w", err)
	}

	return &movement, record, nil
}

// verifyOwnership checks that both product and branch belong to the
// caller's company and returns the product.
func (e *Engine) verifyOwnership(ctx context.Context, productID, branchID id.ID) (*product.Product, error) {
	companyID, err := e.companyID(ctx)
	if err != nil {
		return nil, err
	}
	prod, err := e.products.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if _, err := e.branches.GetByID(ctx, companyID, branchID); err != nil {
		return nil, err
	}
	return prod, nil
}

func (e *Engine) companyID(ctx context.Context) (id.ID, error) {
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

func (e *Engine) referenceType(in MovementInput) ReferenceType {
	if in.ReferenceType != "" {
		return in.ReferenceType
	}
	switch in.Type {
	case MovementIn:
		return ReferencePurchase
	case MovementOut:
		return ReferenceSale
	case MovementAdjustment:
		return ReferenceAdjustment
	default:
		return ReferenceManual
	}
}

func (e *Engine) actor(ctx context.Context, performedBy string) string {
	if performedBy != "" {
		return performedBy
	}
	return appctx.GetUserID(ctx)
}

func (e *Engine) audit(ctx context.Context, event AuditEvent) error {
	if e.auditor == nil {
		return nil
	}
	if err := e.auditor.Record(ctx, event); err != nil {
		return fmt.Errorf("audit %s: %w", event.Action, err)
	}
	return nil
}
