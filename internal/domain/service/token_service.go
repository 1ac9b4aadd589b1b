package service

import (
	"errors"

	"github.com/google/uuid"

	"passport/internal/domain/entity"
)

// ErrInvalidToken is returned for every token verification failure: bad
// signature, malformed token, expiry, wrong token type. The cases are
// deliberately not distinguished so callers cannot leak which one occurred.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the verified identity claims carried by a session token.
// They cover the account's public fields only; the password hash is never a claim.
type SessionClaims struct {
	AccountID uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

// TokenService defines the interface for issuing and verifying the two signed
// token kinds of the account lifecycle. Activation tokens prove control of an
// email address once; session tokens assert identity on subsequent requests.
// Both are time-limited and signed with the process-wide secret.
type TokenService interface {
	// GenerateActivationToken issues a signed, time-limited token bound to an
	// email address.
	GenerateActivationToken(email string) (string, error)

	// ValidateActivationToken verifies signature and expiry and returns the
	// email claim. Fails with ErrInvalidToken on any verification failure.
	ValidateActivationToken(tokenString string) (string, error)

	// GenerateSessionToken issues a bearer token over the account's public
	// identity fields.
	GenerateSessionToken(account *entity.Account) (string, error)

	// ValidateSessionToken verifies signature and expiry and returns the
	// identity claims. Fails with ErrInvalidToken on any verification failure.
	ValidateSessionToken(tokenString string) (*SessionClaims, error)
}
