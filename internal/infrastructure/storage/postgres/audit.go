package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/context"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	Action            string          `db:"action"`
	ProductID         id.ID           `db:"product_id"`
	BranchID          id.ID           `db:"branch_id"`
	UserID            string          `db:"user_id"`
	Details           json.RawMessage `db:"details"`
	DetailsCompressed []byte          `db:"details_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService writes sensitive stock operations to sys_audit. It uses
// the transaction from context so audit rows commit with the change they
// describe.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 10KB
}

// Compile-time check that AuditService satisfies the domain interface.
var _ inventory.Auditor = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record implements inventory.Auditor.
func (s *AuditService) Record(ctx context.Context, event inventory.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	return s.log(ctx, AuditEntry{
		Action:    event.Action,
		ProductID: event.ProductID,
		BranchID:  event.BranchID,
		Details:   details,
	})
}

// log inserts an audit entry, compressing large payloads.
func (s *AuditService) log(ctx context.Context, entry AuditEntry) error {
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Details) > s.compressThreshold {
		entry.DetailsCompressed = s.encoder.EncodeAll(entry.Details, nil)
		entry.Details = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, action, product_id, branch_id, user_id,
			details, details_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.Action, entry.ProductID, entry.BranchID, entry.UserID,
		entry.Details, entry.DetailsCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)

	return err
}

// History implements inventory.Auditor, unmarshalling stored payloads.
func (s *AuditService) History(ctx context.Context, productID id.ID, limit int) ([]inventory.AuditRecord, error) {
	entries, err := s.GetHistory(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]inventory.AuditRecord, 0, len(entries))
	for _, e := range entries {
		record := inventory.AuditRecord{
			Action:    e.Action,
			ProductID: e.ProductID,
			BranchID:  e.BranchID,
			UserID:    e.UserID,
			CreatedAt: e.CreatedAt,
		}
		if len(e.Details) > 0 {
			if err := json.Unmarshal(e.Details, &record.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// GetHistory retrieves audit history for a product, newest first.
func (s *AuditService) GetHistory(ctx context.Context, productID id.ID, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, action, product_id, branch_id, user_id,
			   details, details_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.Action, &e.ProductID, &e.BranchID, &e.UserID,
			&e.Details, &e.DetailsCompressed, &e.CompressionAlgo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		// Decompress if needed
		if e.CompressionAlgo == CompressionZstd && len(e.DetailsCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.DetailsCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress details: %w", err)
			}
			e.Details = decompressed
			e.DetailsCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
