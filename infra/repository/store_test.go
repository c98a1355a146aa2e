package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ulwww/fintrack/pkg/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func someTransaction() domain.Transaction {
	return domain.Transaction{
		ID:              1,
		AccountID:       10,
		CategoryID:      3,
		Amount:          decimal.RequireFromString("100.00"),
		Comment:         "groceries",
		TransactionDate: time.Date(2025, 6, 12, 12, 30, 1, 641_000_000, time.UTC),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestMapStoreError(t *testing.T) {
	assert.NoError(t, mapStoreError(nil))
	assert.ErrorIs(t, mapStoreError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, mapStoreError(gorm.ErrDuplicatedKey), domain.ErrDuplicateID)
	assert.ErrorIs(t, mapStoreError(errors.New("disk on fire")), domain.ErrIOFailure)
}

func TestTransactionStore_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionStore_Create_IOFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)
	tx := someTransaction()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := store.Create(context.Background(), &tx)
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)
	tx := someTransaction()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Update(context.Background(), &tx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionStore_Delete_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)

	// two deletes of the same absent id, both fine
	for range 2 {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "transactions"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	assert.NoError(t, store.Delete(context.Background(), 42))
	assert.NoError(t, store.Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_ReplaceAll_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)
	tx := someTransaction()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.ReplaceAll(context.Background(), []domain.Transaction{tx})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	// the rollback expectation proves the delete never committed on its own
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_ReplaceAll_EmptySet(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	assert.NoError(t, store.ReplaceAll(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_InRange(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewTransactionStore(db)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "account_id", "category_id", "amount", "comment",
		"transaction_date", "created_at", "updated_at",
	}).
		AddRow(1, 10, 3, "5.50", "coffee", from.AddDate(0, 0, 2), from, from).
		AddRow(2, 10, 1, "1000", "", from.AddDate(0, 0, 5), from, from)
	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE transaction_date >= (.+) AND transaction_date <= (.+)`).
		WillReturnRows(rows)

	txs, err := store.InRange(context.Background(), 10, from, to)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, decimal.RequireFromString("5.50").Equal(txs[0].Amount))
	assert.Equal(t, int64(2), txs[1].ID)
}

func TestCategoryRowRoundTrip(t *testing.T) {
	c := domain.Category{ID: 3, Name: "Food", Emoji: '🍔', Direction: domain.Outcome}
	assert.Equal(t, c, categoryRowFrom(&c).ToDomain())

	income := domain.Category{ID: 1, Name: "Salary", Emoji: '💰', Direction: domain.Income}
	assert.Equal(t, income, categoryRowFrom(&income).ToDomain())
}

func TestAccountRowRoundTrip(t *testing.T) {
	a := domain.Account{
		ID: 1, UserID: 2, Name: "Main",
		Balance:  decimal.RequireFromString("1000.00"),
		Currency: "RUB",
	}
	got := accountRowFrom(&a).ToDomain()
	assert.Equal(t, a.ID, got.ID)
	assert.True(t, a.Balance.Equal(got.Balance))
	assert.Equal(t, a.Currency, got.Currency)
}
