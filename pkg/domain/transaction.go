package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single money movement. Amount is always non-negative;
// the sign is derived from the referenced category's direction.
type Transaction struct {
	ID              int64
	AccountID       int64
	CategoryID      int64
	Amount          decimal.Decimal
	Comment         string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the structural invariants of a transaction.
func (t Transaction) Validate() error {
	if t.AccountID <= 0 {
		return fmt.Errorf("%w: accountId must be positive, got %d", ErrValidation, t.AccountID)
	}
	if t.CategoryID <= 0 {
		return fmt.Errorf("%w: categoryId must be positive, got %d", ErrValidation, t.CategoryID)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be non-negative, got %s", ErrValidation, t.Amount)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transactionDate is required", ErrValidation)
	}
	return nil
}

// Equal reports field-by-field equality, comparing amounts by value and
// timestamps by instant.
func (t Transaction) Equal(other Transaction) bool {
	return t.ID == other.ID &&
		t.AccountID == other.AccountID &&
		t.CategoryID == other.CategoryID &&
		t.Amount.Equal(other.Amount) &&
		t.Comment == other.Comment &&
		t.TransactionDate.Equal(other.TransactionDate) &&
		t.CreatedAt.Equal(other.CreatedAt) &&
		t.UpdatedAt.Equal(other.UpdatedAt)
}
