package repository

import (
	"context"
	"errors"

	"github.com/karajelley/lab-toy-factory/internal/toy"
)

var (
	// ErrNotFound is returned when no toy has the given identifier.
	ErrNotFound = errors.New("toy not found")
	// ErrDuplicateName is returned when a write would give two toys the same name.
	ErrDuplicateName = errors.New("toy name already exists")
)

// Repository is the persistence contract for toys. Implementations enforce
// name uniqueness and return ErrNotFound for unknown or malformed identifiers.
type Repository interface {
	Create(ctx context.Context, t *toy.Toy) error
	List(ctx context.Context) ([]*toy.Toy, error)
	SearchByName(ctx context.Context, substr string) ([]*toy.Toy, error)
	Update(ctx context.Context, id string, u toy.UpdateInput) (*toy.Toy, error)
}
