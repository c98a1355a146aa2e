package service

import (
	"context"
	"log/slog"

	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/gateway"
	"github.com/ulwww/fintrack/pkg/mapper"
	"github.com/ulwww/fintrack/pkg/repository"
)

// CategoryService serves the category set remote-first. Every successful
// fetch replaces the local cache wholesale; categories are immutable once
// loaded.
type CategoryService struct {
	api    gateway.API
	store  repository.CategoryStore
	logger *slog.Logger
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(api gateway.API, store repository.CategoryStore, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{api: api, store: store, logger: logger}
}

// Categories returns the full category set. On remote failure the cached set
// is returned together with a *FallbackError naming the cause.
func (s *CategoryService) Categories(ctx context.Context) ([]domain.Category, error) {
	responses, remoteErr := s.api.Categories(ctx)
	if remoteErr == nil {
		categories := make([]domain.Category, 0, len(responses))
		for i := range responses {
			categories = append(categories, mapper.CategoryToDomain(&responses[i]))
		}
		if err := s.store.ReplaceAll(ctx, categories); err != nil {
			return nil, err
		}
		return categories, nil
	}

	cached, err := s.store.All(ctx)
	if err != nil || len(cached) == 0 {
		s.logger.Error("category fetch failed with no local fallback", "error", remoteErr)
		return nil, remoteErr
	}
	return cached, &FallbackError{Err: remoteErr}
}

// ByDirection returns the categories with the given direction, falling back
// to filtering the local cache when the backend is unreachable.
func (s *CategoryService) ByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
	responses, remoteErr := s.api.CategoriesByDirection(ctx, direction == domain.Income)
	if remoteErr == nil {
		categories := make([]domain.Category, 0, len(responses))
		for i := range responses {
			categories = append(categories, mapper.CategoryToDomain(&responses[i]))
		}
		return categories, nil
	}

	cached, err := s.store.All(ctx)
	if err != nil || len(cached) == 0 {
		s.logger.Error("category fetch failed with no local fallback", "error", remoteErr)
		return nil, remoteErr
	}
	filtered := make([]domain.Category, 0, len(cached))
	for _, c := range cached {
		if c.Direction == direction {
			filtered = append(filtered, c)
		}
	}
	return filtered, &FallbackError{Err: remoteErr}
}
