package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/dto"
	"github.com/ulwww/fintrack/pkg/gateway"
	"github.com/ulwww/fintrack/pkg/mapper"
	"github.com/ulwww/fintrack/pkg/repository"
)

// ErrNoAccount is returned when neither the backend nor the local store
// knows any account.
var ErrNoAccount = errors.New("no account available")

// AccountService serves the current account remote-first, mirroring every
// successful fetch into the local store as the offline fallback.
type AccountService struct {
	api    gateway.API
	store  repository.AccountStore
	logger *slog.Logger

	mu sync.Mutex
}

// NewAccountService creates an AccountService.
func NewAccountService(api gateway.API, store repository.AccountStore, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{api: api, store: store, logger: logger}
}

// Current returns the active account. On remote failure the locally cached
// account is returned together with a *FallbackError naming the cause.
func (s *AccountService) Current(ctx context.Context) (*domain.Account, error) {
	account, remoteErr := s.fetchRemote(ctx)
	if remoteErr == nil {
		return account, nil
	}

	local, err := s.store.All(ctx)
	if err != nil || len(local) == 0 {
		s.logger.Error("account fetch failed with no local fallback", "error", remoteErr)
		return nil, remoteErr
	}
	return &local[0], &FallbackError{Err: remoteErr}
}

func (s *AccountService) fetchRemote(ctx context.Context) (*domain.Account, error) {
	responses, err := s.api.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, ErrNoAccount
	}
	account, err := mapper.AccountToDomain(&responses[0])
	if err != nil {
		return nil, err
	}
	s.cache(ctx, account)
	return account, nil
}

// CurrentAccountID resolves the active account id, accepting stale local
// data when the backend is down.
func (s *AccountService) CurrentAccountID(ctx context.Context) (int64, error) {
	account, err := s.Current(ctx)
	if err != nil {
		var fallback *FallbackError
		if !errors.As(err, &fallback) {
			return 0, err
		}
	}
	return account.ID, nil
}

// Update changes the current account's balance and currency on the backend
// and mirrors the canonical result locally. Account mutations are not queued
// for replay; a failure simply propagates.
func (s *AccountService) Update(ctx context.Context, currency string, balance decimal.Decimal) (*domain.Account, error) {
	current, err := s.Current(ctx)
	if err != nil {
		var fallback *FallbackError
		if !errors.As(err, &fallback) {
			return nil, err
		}
	}

	req := dto.AccountUpdateRequest{
		Name:     current.Name,
		Balance:  balance.String(),
		Currency: currency,
	}
	response, err := s.api.UpdateAccount(ctx, current.ID, req)
	if err != nil {
		return nil, err
	}
	updated, err := mapper.AccountToDomain(response)
	if err != nil {
		return nil, fmt.Errorf("account update response: %w", err)
	}
	s.cache(ctx, updated)
	return updated, nil
}

// cache upserts the account into the local store; a cache miss must never
// fail the foreground operation, so errors are only logged.
func (s *AccountService) cache(ctx context.Context, account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.Update(ctx, account)
	if errors.Is(err, domain.ErrNotFound) {
		err = s.store.Create(ctx, account)
	}
	if err != nil {
		s.logger.Warn("caching account locally failed", "account_id", account.ID, "error", err)
	}
}
