package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested entity does not exist in the local store.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicateID is returned when creating an entity whose id is already stored.
	ErrDuplicateID = errors.New("entity id already exists")
	// ErrIOFailure is returned when the backing medium is unavailable or a
	// storage operation fails for reasons other than NotFound/DuplicateID.
	ErrIOFailure = errors.New("storage i/o failure")
	// ErrValidation is returned when an entity fails structural validation.
	ErrValidation = errors.New("validation error")
)
