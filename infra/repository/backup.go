package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/dto"
	"github.com/ulwww/fintrack/pkg/mapper"
	"github.com/ulwww/fintrack/pkg/repository"
)

// backupStore persists the pending-operation queue. Entry ids are generated
// from the wall clock and forced strictly increasing, so enqueue order is
// recoverable even when two entries land in the same instant.
type backupStore struct {
	db *gorm.DB

	mu     sync.Mutex
	lastID int64
}

// NewBackupStore returns the durable backup log.
func NewBackupStore(db *gorm.DB) repository.BackupStore {
	return &backupStore{db: db}
}

func (s *backupStore) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *backupStore) Append(ctx context.Context, kind domain.OperationKind, payload *domain.Transaction, transactionID int64) error {
	var body []byte
	switch kind {
	case domain.OpAdd, domain.OpUpdate:
		if payload == nil {
			return fmt.Errorf("%w: %s operation requires a payload", domain.ErrValidation, kind)
		}
		encoded, err := json.Marshal(mapper.TransactionToResponse(payload))
		if err != nil {
			return fmt.Errorf("%w: encode backup payload: %v", domain.ErrIOFailure, err)
		}
		body = encoded
		transactionID = payload.ID
	case domain.OpDelete:
		if transactionID == 0 {
			return fmt.Errorf("%w: delete operation requires a transaction id", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown operation kind %q", domain.ErrValidation, kind)
	}

	r := BackupRow{
		ID:            s.nextID(),
		Kind:          string(kind),
		Payload:       body,
		TransactionID: transactionID,
		EnqueuedAt:    time.Now().UTC(),
	}
	return mapStoreError(s.db.WithContext(ctx).Create(&r).Error)
}

func (s *backupStore) Pending(ctx context.Context) ([]domain.PendingOperation, error) {
	var rows []BackupRow
	err := s.db.WithContext(ctx).Order("enqueued_at asc, id asc").Find(&rows).Error
	if err != nil {
		return nil, mapStoreError(err)
	}
	ops := make([]domain.PendingOperation, 0, len(rows))
	for _, r := range rows {
		op := domain.PendingOperation{
			ID:            r.ID,
			Kind:          domain.OperationKind(r.Kind),
			TransactionID: r.TransactionID,
			EnqueuedAt:    r.EnqueuedAt,
		}
		if len(r.Payload) > 0 {
			tx, err := decodePayload(r.Payload)
			if err != nil {
				return nil, fmt.Errorf("%w: decode backup payload %d: %v", domain.ErrIOFailure, r.ID, err)
			}
			op.Payload = tx
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// decodePayload restores a queued transaction from its stored wire encoding.
// A queued create may carry id 0 (the server has not assigned one yet), so
// the payload is not run through server-response validation; it was validated
// by the write path before it was enqueued.
func decodePayload(data []byte) (*domain.Transaction, error) {
	var wire dto.TransactionResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(wire.Amount)
	if err != nil {
		return nil, err
	}
	txDate, err := dto.ParseTime(wire.TransactionDate)
	if err != nil {
		return nil, err
	}
	tx := domain.Transaction{
		ID:              wire.ID,
		AccountID:       wire.AccountID,
		CategoryID:      wire.CategoryID,
		Amount:          amount,
		Comment:         wire.Comment,
		TransactionDate: txDate,
	}
	if wire.CreatedAt != "" {
		if tx.CreatedAt, err = dto.ParseTime(wire.CreatedAt); err != nil {
			return nil, err
		}
	}
	if wire.UpdatedAt != "" {
		if tx.UpdatedAt, err = dto.ParseTime(wire.UpdatedAt); err != nil {
			return nil, err
		}
	}
	return &tx, nil
}

func (s *backupStore) Remove(ctx context.Context, id int64) error {
	return mapStoreError(s.db.WithContext(ctx).Where("id = ?", id).Delete(&BackupRow{}).Error)
}
