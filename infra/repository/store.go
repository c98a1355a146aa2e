package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/repository"
)

// row is the storage-side counterpart of a domain entity.
type row[E any] interface {
	ToDomain() E
	PK() int64
}

// store implements repository.Store[E] once for every entity kind; the
// per-kind pieces are the row model and its converter.
type store[E any, R row[E]] struct {
	db         *gorm.DB
	fromDomain func(*E) R
}

func newStore[E any, R row[E]](db *gorm.DB, fromDomain func(*E) R) *store[E, R] {
	return &store[E, R]{db: db, fromDomain: fromDomain}
}

func (s *store[E, R]) All(ctx context.Context) ([]E, error) {
	var rows []R
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, mapStoreError(err)
	}
	entities := make([]E, 0, len(rows))
	for _, r := range rows {
		entities = append(entities, r.ToDomain())
	}
	return entities, nil
}

func (s *store[E, R]) Get(ctx context.Context, id int64) (*E, error) {
	var r R
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, mapStoreError(err)
	}
	entity := r.ToDomain()
	return &entity, nil
}

func (s *store[E, R]) Create(ctx context.Context, entity *E) error {
	r := s.fromDomain(entity)
	return mapStoreError(s.db.WithContext(ctx).Create(&r).Error)
}

func (s *store[E, R]) Update(ctx context.Context, entity *E) error {
	r := s.fromDomain(entity)
	result := s.db.WithContext(ctx).
		Model(&r).
		Where("id = ?", r.PK()).
		Select("*").
		Updates(r)
	if result.Error != nil {
		return mapStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store[E, R]) Delete(ctx context.Context, id int64) error {
	var r R
	return mapStoreError(s.db.WithContext(ctx).Where("id = ?", id).Delete(&r).Error)
}

func (s *store[E, R]) ReplaceAll(ctx context.Context, entities []E) error {
	rows := make([]R, 0, len(entities))
	for i := range entities {
		rows = append(rows, s.fromDomain(&entities[i]))
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model R
		if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	return mapStoreError(err)
}

// NewAccountStore returns the durable account store.
func NewAccountStore(db *gorm.DB) repository.AccountStore {
	return newStore[domain.Account, AccountRow](db, accountRowFrom)
}

// NewCategoryStore returns the durable category cache.
func NewCategoryStore(db *gorm.DB) repository.CategoryStore {
	return newStore[domain.Category, CategoryRow](db, categoryRowFrom)
}

type transactionStore struct {
	*store[domain.Transaction, TransactionRow]
}

// NewTransactionStore returns the durable transaction store.
func NewTransactionStore(db *gorm.DB) repository.TransactionStore {
	return &transactionStore{newStore[domain.Transaction, TransactionRow](db, transactionRowFrom)}
}

func (s *transactionStore) InRange(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	query := s.db.WithContext(ctx).
		Where("transaction_date >= ? AND transaction_date <= ?", from, to)
	if accountID != 0 {
		query = query.Where("account_id = ?", accountID)
	}
	var rows []TransactionRow
	if err := query.Order("transaction_date asc").Find(&rows).Error; err != nil {
		return nil, mapStoreError(err)
	}
	txs := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.ToDomain())
	}
	return txs, nil
}
