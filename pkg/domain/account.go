// Package domain holds the financial entities managed by the local store and
// the sync engine: accounts, categories, transactions and the pending
// operations queued while the backend is unreachable.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a user's money account. Exactly one account is treated as
// current for a session; ID is the stable identity.
type Account struct {
	ID        int64
	UserID    int64
	Name      string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Direction tells whether a category describes money coming in or going out.
type Direction string

const (
	Income  Direction = "income"
	Outcome Direction = "outcome"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Income || d == Outcome
}

// Category classifies transactions. Categories are immutable once loaded;
// the full set is replaced wholesale on every successful refresh.
type Category struct {
	ID        int64
	Name      string
	Emoji     rune
	Direction Direction
}
