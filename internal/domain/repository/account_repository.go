// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
// Absence is always reported through this value, never as a nil entity.
var ErrAccountNotFound = errors.New("account not found")

// ListQuery describes a page of the account listing.
type ListQuery struct {
	Offset int
	Limit  int
	// Search is an optional case-insensitive substring matched against
	// first name, last name and email. Empty means no filter.
	Search string
}

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account. The accounts table carries a unique
	// index on email; a conflicting insert surfaces as the EmailTaken domain
	// error, which is what closes the registration check-then-insert race.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// List returns a page of accounts ordered by creation time descending.
	// An empty page is a valid result, not an error.
	List(ctx context.Context, query ListQuery) ([]*entity.Account, error)
}
