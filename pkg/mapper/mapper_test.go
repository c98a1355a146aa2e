package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/dto"
)

func TestTransactionWireRoundTrip(t *testing.T) {
	original := domain.Transaction{
		ID:              42,
		AccountID:       1,
		CategoryID:      3,
		Amount:          decimal.RequireFromString("100.50"),
		Comment:         "groceries",
		TransactionDate: time.Date(2025, 6, 12, 12, 30, 1, 641_000_000, time.UTC),
		CreatedAt:       time.Date(2025, 6, 12, 12, 30, 2, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 6, 12, 12, 30, 3, 0, time.UTC),
	}

	wire := TransactionToResponse(&original)
	assert.Equal(t, "100.5", wire.Amount)

	back, err := TransactionToDomain(&wire)
	require.NoError(t, err)
	assert.True(t, original.Equal(*back), "round-tripped transaction differs: %+v vs %+v", original, *back)
}

func TestTransactionToDomainErrors(t *testing.T) {
	valid := dto.TransactionResponse{
		ID:              1,
		AccountID:       1,
		CategoryID:      3,
		Amount:          "100.00",
		TransactionDate: "2025-06-12T12:30:01.641Z",
	}

	t.Run("valid", func(t *testing.T) {
		tx, err := TransactionToDomain(&valid)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("100.00").Equal(tx.Amount))
	})

	t.Run("bad amount", func(t *testing.T) {
		bad := valid
		bad.Amount = "one hundred"
		_, err := TransactionToDomain(&bad)
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		bad := valid
		bad.TransactionDate = "12.06.2025"
		_, err := TransactionToDomain(&bad)
		assert.Error(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		bad := valid
		bad.AccountID = 0
		_, err := TransactionToDomain(&bad)
		assert.Error(t, err)
	})
}

func TestTransactionToRequest(t *testing.T) {
	tx := domain.Transaction{
		ID:              7,
		AccountID:       1,
		CategoryID:      3,
		Amount:          decimal.RequireFromString("5.50"),
		Comment:         "coffee",
		TransactionDate: time.Date(2025, 6, 12, 12, 30, 1, 641_000_000, time.UTC),
	}

	req := TransactionToRequest(&tx)
	assert.Equal(t, int64(1), req.AccountID)
	assert.Equal(t, "5.5", req.Amount)
	assert.Equal(t, "2025-06-12T12:30:01.641Z", req.TransactionDate)
}

func TestCategoryToDomain(t *testing.T) {
	c := CategoryToDomain(&dto.CategoryResponse{ID: 1, Name: "Salary", Emoji: "💰", IsIncome: true})
	assert.Equal(t, domain.Income, c.Direction)
	assert.Equal(t, '💰', c.Emoji)

	// missing emoji falls back to a placeholder
	c = CategoryToDomain(&dto.CategoryResponse{ID: 2, Name: "Other", IsIncome: false})
	assert.Equal(t, domain.Outcome, c.Direction)
	assert.Equal(t, '?', c.Emoji)
}

func TestAccountToDomain(t *testing.T) {
	acc, err := AccountToDomain(&dto.AccountResponse{
		ID: 1, UserID: 2, Name: "Main", Balance: "1000.00", Currency: "RUB",
		CreatedAt: "2025-06-12T12:30:01.641Z",
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000.00").Equal(acc.Balance))
	assert.Equal(t, "RUB", acc.Currency)
	assert.True(t, acc.UpdatedAt.IsZero())

	_, err = AccountToDomain(&dto.AccountResponse{ID: 1, Balance: "lots", Currency: "RUB"})
	assert.Error(t, err)
}
