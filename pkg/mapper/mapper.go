// Package mapper converts between wire DTOs and domain entities.
package mapper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/dto"
)

// AccountToDomain maps a backend account payload to a domain Account.
func AccountToDomain(r *dto.AccountResponse) (*domain.Account, error) {
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return nil, fmt.Errorf("account %d: parse balance %q: %w", r.ID, r.Balance, err)
	}
	createdAt, err := optionalTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", r.ID, err)
	}
	updatedAt, err := optionalTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", r.ID, err)
	}
	return &domain.Account{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Balance:   balance,
		Currency:  r.Currency,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// CategoryToDomain maps a backend category payload to a domain Category.
func CategoryToDomain(r *dto.CategoryResponse) domain.Category {
	emoji := '?'
	for _, ch := range r.Emoji {
		emoji = ch
		break
	}
	direction := domain.Outcome
	if r.IsIncome {
		direction = domain.Income
	}
	return domain.Category{
		ID:        r.ID,
		Name:      r.Name,
		Emoji:     emoji,
		Direction: direction,
	}
}

// TransactionToDomain maps a backend transaction payload to a domain
// Transaction. The payload is validated before conversion.
func TransactionToDomain(r *dto.TransactionResponse) (*domain.Transaction, error) {
	if err := dto.Validate(r); err != nil {
		return nil, fmt.Errorf("transaction payload: %w", err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: parse amount %q: %w", r.ID, r.Amount, err)
	}
	txDate, err := dto.ParseTime(r.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	createdAt, err := optionalTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	updatedAt, err := optionalTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	return &domain.Transaction{
		ID:              r.ID,
		AccountID:       r.AccountID,
		CategoryID:      r.CategoryID,
		Amount:          amount,
		Comment:         r.Comment,
		TransactionDate: txDate,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

// TransactionToResponse maps a domain Transaction to the server response
// shape. Used by the backup log to persist payloads losslessly and by the
// mock backend to echo entities.
func TransactionToResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount.String(),
		Comment:         t.Comment,
		TransactionDate: dto.FormatTime(t.TransactionDate),
		CreatedAt:       dto.FormatTime(t.CreatedAt),
		UpdatedAt:       dto.FormatTime(t.UpdatedAt),
	}
}

// TransactionToRequest maps a domain Transaction to the create/update wire shape.
func TransactionToRequest(t *domain.Transaction) dto.TransactionRequest {
	return dto.TransactionRequest{
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount.String(),
		TransactionDate: dto.FormatTime(t.TransactionDate),
		Comment:         t.Comment,
	}
}

func optionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return dto.ParseTime(s)
}
