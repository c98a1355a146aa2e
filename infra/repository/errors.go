package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ulwww/fintrack/pkg/domain"
)

// mapStoreError converts GORM errors to domain errors so callers never see
// infrastructure error types. Anything that is not a not-found or duplicate
// key condition counts as an i/o failure of the backing medium.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateID
	default:
		return fmt.Errorf("%w: %v", domain.ErrIOFailure, err)
	}
}
