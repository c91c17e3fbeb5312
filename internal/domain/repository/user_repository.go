package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

// Returned by Add when a store-level unique index rejects the record.
var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrDuplicatePhone = errors.New("duplicate phone number")
)

// Repository is the soft-delete aware CRUD contract shared by all stores.
// Lookups report absence as a nil record and a nil error; errors are reserved
// for store failures.
type Repository[T any] interface {
	// GetByID returns the record only when it is not soft-deleted.
	GetByID(ctx context.Context, id string) (*T, error)
	// GetAll returns every record that is not soft-deleted.
	GetAll(ctx context.Context) ([]*T, error)
	// Add inserts the record and writes the store-assigned ID back into it.
	Add(ctx context.Context, v *T) error
	// Update replaces the active record with the same ID. Replacing a
	// soft-deleted or missing record is a no-op.
	Update(ctx context.Context, v *T) error
	// SoftDelete flags the record as deleted regardless of its current state.
	SoftDelete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Repository[entity.User]

	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*entity.User, error)
	GetByEmailIncludingDeleted(ctx context.Context, email string) (*entity.User, error)
	GetByPhoneNumberIncludingDeleted(ctx context.Context, phone string) (*entity.User, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (*entity.User, error)
	// GetInactive returns every soft-deleted record.
	GetInactive(ctx context.Context) ([]*entity.User, error)
	// Activate clears the soft-delete flag unconditionally.
	Activate(ctx context.Context, id string) error
}
