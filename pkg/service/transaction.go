package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/gateway"
	"github.com/ulwww/fintrack/pkg/mapper"
	"github.com/ulwww/fintrack/pkg/repository"
)

// TransactionService is the sync engine for transactions: remote-first reads
// that reconcile the local store, remote-first writes that queue failed
// mutations in the backup log, and a replay pass draining that log.
type TransactionService struct {
	api      gateway.API
	store    repository.TransactionStore
	backup   repository.BackupStore
	accounts *AccountService
	logger   *slog.Logger

	// mu is held from the moment a period fetch is issued until its
	// ReplaceAll lands, and by every write-path mirror. A write that
	// succeeds remotely mid-fetch blocks on its local mirror until the
	// reconcile is done, then applies on top instead of being wiped.
	mu sync.Mutex
	// replayMu keeps at most one replay pass in flight.
	replayMu sync.Mutex
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(
	api gateway.API,
	store repository.TransactionStore,
	backup repository.BackupStore,
	accounts *AccountService,
	logger *slog.Logger,
) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		api:      api,
		store:    store,
		backup:   backup,
		accounts: accounts,
		logger:   logger,
	}
}

// TransactionsForPeriod returns the current account's transactions with
// transactionDate in [start, end].
//
// A best-effort replay pass runs first so queued mutations land before the
// fetch. The remote result reconciles the local store wholesale (the server
// is authoritative) and is re-filtered client-side to the exact bound, since
// the server filters by whole days. On remote failure the local store is
// read instead and the result is tagged with a *FallbackError.
func (s *TransactionService) TransactionsForPeriod(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	accountID, err := s.accounts.CurrentAccountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.SyncPending(ctx); err != nil {
		s.logger.Warn("pending replay before read failed", "error", err)
	}

	utcStart := startOfDayUTC(start)
	utcEnd := startOfDayUTC(end).AddDate(0, 0, 1)

	s.mu.Lock()
	fetched, remoteErr := s.fetchPeriod(ctx, accountID, utcStart, utcEnd)
	if remoteErr != nil {
		s.mu.Unlock()
		local, err := s.store.InRange(ctx, accountID, start, end)
		if err != nil {
			return nil, err
		}
		return local, &FallbackError{Err: remoteErr}
	}

	err = s.store.ReplaceAll(ctx, fetched)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := make([]domain.Transaction, 0, len(fetched))
	for _, t := range fetched {
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (s *TransactionService) fetchPeriod(ctx context.Context, accountID int64, start, end time.Time) ([]domain.Transaction, error) {
	responses, err := s.api.TransactionsForPeriod(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}
	transactions := make([]domain.Transaction, 0, len(responses))
	for i := range responses {
		t, err := mapper.TransactionToDomain(&responses[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, nil
}

// Create pushes a new transaction to the backend and mirrors the canonical
// result locally. On failure the mutation is queued for replay and the
// original error is returned: the caller sees the operation as failed now
// even though it will be retried.
func (s *TransactionService) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	created, err := s.pushCreate(ctx, tx)
	if err != nil {
		if appendErr := s.backup.Append(ctx, domain.OpAdd, tx, tx.ID); appendErr != nil {
			return nil, errors.Join(err, appendErr)
		}
		s.logger.Info("create queued for replay", "transaction_id", tx.ID, "error", err)
		return nil, err
	}
	return created, nil
}

// Update pushes an edited transaction to the backend and mirrors the result
// locally, queuing the mutation on failure like Create.
func (s *TransactionService) Update(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.pushUpdate(ctx, tx)
	if err != nil {
		if appendErr := s.backup.Append(ctx, domain.OpUpdate, tx, tx.ID); appendErr != nil {
			return nil, errors.Join(err, appendErr)
		}
		s.logger.Info("update queued for replay", "transaction_id", tx.ID, "error", err)
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction on the backend and locally, queuing the
// deletion on failure.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.pushDelete(ctx, id); err != nil {
		if appendErr := s.backup.Append(ctx, domain.OpDelete, nil, id); appendErr != nil {
			return errors.Join(err, appendErr)
		}
		s.logger.Info("delete queued for replay", "transaction_id", id, "error", err)
		return err
	}
	return nil
}

// pushCreate performs the remote create and mirrors the server-assigned
// entity into the store. It never touches the backup log, so the replay pass
// can reuse it without re-enqueueing a failed entry.
func (s *TransactionService) pushCreate(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	response, err := s.api.CreateTransaction(ctx, mapper.TransactionToRequest(tx))
	if err != nil {
		return nil, err
	}
	created, err := mapper.TransactionToDomain(response)
	if err != nil {
		return nil, err
	}
	if err := s.mirrorUpsert(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TransactionService) pushUpdate(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	response, err := s.api.UpdateTransaction(ctx, tx.ID, mapper.TransactionToRequest(tx))
	if err != nil {
		return nil, err
	}
	updated, err := mapper.TransactionToDomain(response)
	if err != nil {
		return nil, err
	}
	if err := s.mirrorUpsert(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TransactionService) pushDelete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, id)
}

// mirrorUpsert writes the canonical entity into the store; a range sync may
// already have pulled it, so duplicate/missing ids fall through to the other
// operation.
func (s *TransactionService) mirrorUpsert(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.Create(ctx, tx)
	if errors.Is(err, domain.ErrDuplicateID) {
		err = s.store.Update(ctx, tx)
	}
	return err
}

// SyncPending drains the backup log in enqueue order, removing each entry
// once its replay succeeds. A failed entry stays queued and does not stop
// the pass, but later entries touching the same transaction are skipped so
// per-entity ordering is preserved (replaying a delete before its failed add
// would resurrect or mis-order state). Per-entry failures are collected and
// returned joined. At most one pass runs at a time; a concurrent call
// returns immediately.
func (s *TransactionService) SyncPending(ctx context.Context) error {
	if !s.replayMu.TryLock() {
		return nil
	}
	defer s.replayMu.Unlock()

	pending, err := s.backup.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	s.logger.Info("replaying pending operations", "count", len(pending))
	var errs []error
	poisoned := make(map[int64]bool)
	for _, op := range pending {
		if poisoned[op.TransactionID] {
			errs = append(errs, fmt.Errorf("operation %d (%s) skipped: earlier operation on transaction %d failed", op.ID, op.Kind, op.TransactionID))
			continue
		}
		if err := s.replayOne(ctx, op); err != nil {
			s.logger.Warn("replay failed, entry stays queued",
				"operation_id", op.ID, "kind", op.Kind, "transaction_id", op.TransactionID, "error", err)
			errs = append(errs, fmt.Errorf("operation %d (%s): %w", op.ID, op.Kind, err))
			poisoned[op.TransactionID] = true
			continue
		}
		if err := s.backup.Remove(ctx, op.ID); err != nil {
			errs = append(errs, fmt.Errorf("remove replayed operation %d: %w", op.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *TransactionService) replayOne(ctx context.Context, op domain.PendingOperation) error {
	switch op.Kind {
	case domain.OpAdd:
		if op.Payload == nil {
			return fmt.Errorf("%w: add operation %d has no payload", domain.ErrValidation, op.ID)
		}
		_, err := s.pushCreate(ctx, op.Payload)
		return err
	case domain.OpUpdate:
		if op.Payload == nil {
			return fmt.Errorf("%w: update operation %d has no payload", domain.ErrValidation, op.ID)
		}
		_, err := s.pushUpdate(ctx, op.Payload)
		return err
	case domain.OpDelete:
		return s.pushDelete(ctx, op.TransactionID)
	default:
		return fmt.Errorf("%w: unknown operation kind %q", domain.ErrValidation, op.Kind)
	}
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
