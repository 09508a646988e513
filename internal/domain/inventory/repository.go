package inventory

import (
	"context"
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// RecordRepository persists per-(product, branch) inventory records.
// Mutating methods must be called inside a transaction; GetForUpdate takes
// a row lock held until commit.
type RecordRepository interface {
	// Ensure creates a zero-quantity record if none exists. Safe to call
	// concurrently; losers of the insert race see the winner's row.
	Ensure(ctx context.Context, productID, branchID id.ID) error

	// GetForUpdate returns the record locked FOR UPDATE.
	GetForUpdate(ctx context.Context, productID, branchID id.ID) (*InventoryRecord, error)

	// Get returns the record without locking, or NotFound.
	Get(ctx context.Context, productID, branchID id.ID) (*InventoryRecord, error)

	// Update writes quantity, reserved quantity and timestamps back.
	Update(ctx context.Context, record *InventoryRecord) error
}

// MovementRepository persists the append-only movement ledger.
type MovementRepository interface {
	// Create appends a movement. Movements are immutable after insert.
	Create(ctx context.Context, movement *Movement) error

	// List returns movements matching the filter, newest first.
	List(ctx context.Context, filter MovementFilter) (*MovementPage, error)
}

// MovementFilter narrows ledger queries. Zero values mean "any",
// except CompanyID which is always enforced.
type MovementFilter struct {
	CompanyID id.ID
	ProductID *id.ID
	BranchID  *id.ID
	Type      MovementType
	DateFrom  *time.Time
	DateTo    *time.Time

	Page  int
	Limit int
}

// Normalize applies pagination defaults and bounds.
func (f *MovementFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
}

// Offset returns the row offset for the normalized page.
func (f *MovementFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// MovementPage is one page of ledger entries with the unpaged total.
type MovementPage struct {
	Movements []Movement `json:"movements"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// AuditEvent describes a sensitive stock operation for the audit log.
type AuditEvent struct {
	Action    string
	ProductID id.ID
	BranchID  id.ID
	Details   map[string]any
}

// AuditRecord is one persisted audit event read back from the log.
type AuditRecord struct {
	Action    string         `json:"action"`
	ProductID id.ID          `json:"productId"`
	BranchID  id.ID          `json:"branchId"`
	UserID    string         `json:"userId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Auditor records sensitive operations and reads them back. Record must
// write within the caller's transaction so audit entries commit with the
// change.
type Auditor interface {
	Record(ctx context.Context, event AuditEvent) error

	// History returns recorded events for a product, newest first.
	History(ctx context.Context, productID id.ID, limit int) ([]AuditRecord, error)
}
