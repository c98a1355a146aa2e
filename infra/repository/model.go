// Package repository implements the store contracts over GORM. One generic
// implementation serves every entity kind; the row models here are the
// storage-side shapes with converters to and from the domain.
package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulwww/fintrack/pkg/domain"
)

// AccountRow is the stored shape of a domain.Account.
type AccountRow struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64           `gorm:"index"`
	Name      string          `gorm:"size:255"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,8)"`
	Currency  string          `gorm:"type:varchar(3)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AccountRow) TableName() string { return "accounts" }

func (r AccountRow) PK() int64 { return r.ID }

func (r AccountRow) ToDomain() domain.Account {
	return domain.Account{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Balance:   r.Balance,
		Currency:  r.Currency,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func accountRowFrom(a *domain.Account) AccountRow {
	return AccountRow{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Balance:   a.Balance,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// CategoryRow is the stored shape of a domain.Category.
type CategoryRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"size:255"`
	Emoji    string `gorm:"size:8"`
	IsIncome bool
}

func (CategoryRow) TableName() string { return "categories" }

func (r CategoryRow) PK() int64 { return r.ID }

func (r CategoryRow) ToDomain() domain.Category {
	emoji := '?'
	for _, ch := range r.Emoji {
		emoji = ch
		break
	}
	direction := domain.Outcome
	if r.IsIncome {
		direction = domain.Income
	}
	return domain.Category{ID: r.ID, Name: r.Name, Emoji: emoji, Direction: direction}
}

func categoryRowFrom(c *domain.Category) CategoryRow {
	return CategoryRow{
		ID:       c.ID,
		Name:     c.Name,
		Emoji:    string(c.Emoji),
		IsIncome: c.Direction == domain.Income,
	}
}

// TransactionRow is the stored shape of a domain.Transaction.
type TransactionRow struct {
	ID              int64           `gorm:"primaryKey;autoIncrement:false"`
	AccountID       int64           `gorm:"index"`
	CategoryID      int64           `gorm:"index"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,8)"`
	Comment         string
	TransactionDate time.Time `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TransactionRow) TableName() string { return "transactions" }

func (r TransactionRow) PK() int64 { return r.ID }

func (r TransactionRow) ToDomain() domain.Transaction {
	return domain.Transaction{
		ID:              r.ID,
		AccountID:       r.AccountID,
		CategoryID:      r.CategoryID,
		Amount:          r.Amount,
		Comment:         r.Comment,
		TransactionDate: r.TransactionDate,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func transactionRowFrom(t *domain.Transaction) TransactionRow {
	return TransactionRow{
		ID:              t.ID,
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		Comment:         t.Comment,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// BackupRow is one stored pending operation. Payload is the wire-encoded
// transaction (decimal amounts as strings) so nothing is lost to rounding.
type BackupRow struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Kind          string `gorm:"size:16"`
	Payload       []byte
	TransactionID int64
	EnqueuedAt    time.Time `gorm:"index"`
}

func (BackupRow) TableName() string { return "backup_operations" }
