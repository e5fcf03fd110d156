package dao

import "errors"

// Sentinel errors shared by every state store; wrap them with %w and test
// with errors.Is.
var (
	// ErrNotFound means nothing is stored under the id.
	ErrNotFound = errors.New("dao: not found")

	// ErrAlreadyExists is returned by Create when the id is already taken.
	ErrAlreadyExists = errors.New("dao: already exists")

	// ErrMalformed is returned when stored data exists but cannot be decoded.
	ErrMalformed = errors.New("dao: malformed entity")

	// ErrInvalidID means the id was empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when asked to persist a nil record.
	ErrNilEntity = errors.New("dao: nil entity")
)
