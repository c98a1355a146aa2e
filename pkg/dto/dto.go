// Package dto defines the JSON shapes exchanged with the backend. Amounts
// travel as decimal strings and timestamps as ISO-8601 with fractional
// seconds in UTC, so no value is ever routed through binary floating point.
package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// WireTimeLayout is the timestamp format used on the wire,
// e.g. 2025-06-12T12:30:01.641Z.
const WireTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var validate = validator.New()

// FormatTime renders t in the wire format, normalized to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(WireTimeLayout)
}

// ParseTime parses a wire timestamp. Fractional seconds are optional on
// input; the result is in UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wire timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Validate runs structural validation over a decoded payload.
func Validate(v any) error {
	return validate.Struct(v)
}

// AccountResponse is the backend's account representation.
type AccountResponse struct {
	ID        int64  `json:"id" validate:"required"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Balance   string `json:"balance" validate:"required"`
	Currency  string `json:"currency" validate:"required,len=3"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// AccountUpdateRequest carries an account mutation to the backend.
type AccountUpdateRequest struct {
	Name     string `json:"name" validate:"required"`
	Balance  string `json:"balance" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// CategoryResponse is the backend's category representation.
type CategoryResponse struct {
	ID       int64  `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// TransactionRequest carries a transaction create/update to the backend.
// Only bare foreign-key ids are sent; category names and emoji are resolved
// through the category read path.
type TransactionRequest struct {
	AccountID       int64  `json:"accountId" validate:"required,gt=0"`
	CategoryID      int64  `json:"categoryId" validate:"required,gt=0"`
	Amount          string `json:"amount" validate:"required"`
	TransactionDate string `json:"transactionDate" validate:"required"`
	Comment         string `json:"comment"`
}

// TransactionResponse is the backend's transaction representation.
type TransactionResponse struct {
	ID              int64  `json:"id" validate:"required"`
	AccountID       int64  `json:"accountId" validate:"required"`
	CategoryID      int64  `json:"categoryId" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Comment         string `json:"comment"`
	TransactionDate string `json:"transactionDate" validate:"required"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}
