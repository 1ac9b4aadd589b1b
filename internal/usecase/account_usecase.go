// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput carries the current and replacement passwords.
// The account identity comes from the verified session token, never from the body.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ListAccountsInput carries pagination and search parameters for listings.
// Values are clamped by the service, so any input is valid.
type ListAccountsInput struct {
	Page   int
	Limit  int
	Search string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
type RegisterOutput struct {
	Account *entity.Account
}

// LoginOutput returns the generated session token after a successful login.
type LoginOutput struct {
	SessionToken string
}

// ProfileView is the public projection of an account. It is the only account
// shape that crosses the delivery boundary; the password hash, activation
// state and timestamps stay behind it.
type ProfileView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// NewProfileView projects an account entity into its public view.
func NewProfileView(account *entity.Account) *ProfileView {
	if account == nil {
		return nil
	}

	return &ProfileView{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer depends on.
type AccountUsecase interface {
	// Register creates an inactive account and triggers the activation email.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Activate flips an account to active given a valid activation token.
	// Returns the activated email address.
	Activate(ctx context.Context, token string) (string, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// ChangePassword replaces the password of the authenticated account.
	ChangePassword(ctx context.Context, accountID uuid.UUID, input *ChangePasswordInput) error

	// GetProfile returns the public view of a single account.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*ProfileView, error)

	// ListAccounts returns public views page by page, newest first.
	ListAccounts(ctx context.Context, input *ListAccountsInput) ([]*ProfileView, error)
}
