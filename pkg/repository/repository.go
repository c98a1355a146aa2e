// Package repository defines the persistence contracts the sync engine is
// built on: one generic store shape shared by every entity kind, plus the
// backup log holding mutations queued for replay.
package repository

import (
	"context"
	"time"

	"github.com/ulwww/fintrack/pkg/domain"
)

// Store provides type-safe durable storage for one entity kind. All mutating
// operations commit before returning; errors map to the domain sentinels
// (ErrNotFound, ErrDuplicateID, ErrIOFailure).
type Store[E any] interface {
	// All returns every stored entity.
	All(ctx context.Context) ([]E, error)
	// Get returns the entity with the given id, or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*E, error)
	// Create stores a new entity; domain.ErrDuplicateID if the id exists.
	Create(ctx context.Context, entity *E) error
	// Update replaces all fields of an existing entity; domain.ErrNotFound
	// if it does not exist. No partial patch semantics.
	Update(ctx context.Context, entity *E) error
	// Delete removes the entity with the given id. Deleting an absent id is
	// not an error.
	Delete(ctx context.Context, id int64) error
	// ReplaceAll atomically swaps the full table contents for the given set:
	// rows absent from the input are removed, all given rows are upserted.
	// A failure partway must leave the previous state intact.
	ReplaceAll(ctx context.Context, entities []E) error
}

// TransactionStore adds the date-range query used by the sync read path.
type TransactionStore interface {
	Store[domain.Transaction]
	// InRange returns transactions of the account whose transactionDate lies
	// in [from, to], ordered by transactionDate ascending. An empty result is
	// not an error. accountID 0 matches every account.
	InRange(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error)
}

// AccountStore stores accounts.
type AccountStore interface {
	Store[domain.Account]
}

// CategoryStore stores the category cache.
type CategoryStore interface {
	Store[domain.Category]
}

// BackupStore is the append-only queue of mutations that failed against the
// server and await replay.
type BackupStore interface {
	// Append persists a new pending operation with a fresh monotonically
	// increasing id. payload is required for add/update, transactionID for
	// delete. Persistence failures propagate: losing a queued mutation loses
	// a user edit.
	Append(ctx context.Context, kind domain.OperationKind, payload *domain.Transaction, transactionID int64) error
	// Pending returns all queued operations ordered by enqueue time ascending.
	// Replay depends on this ordering.
	Pending(ctx context.Context) ([]domain.PendingOperation, error)
	// Remove deletes the entry with the given id; removing an absent id is
	// not an error.
	Remove(ctx context.Context, id int64) error
}
