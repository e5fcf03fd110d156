package dao

import (
	"context"
)

// Service persists a single entity per id. Create must fail with
// ErrAlreadyExists when id is already taken; Save overwrites.
type Service[K comparable, T any] interface {
	Load(ctx context.Context, id K) (*T, error)

	Create(ctx context.Context, id K, t *T) error

	Save(ctx context.Context, id K, t *T) error
}
