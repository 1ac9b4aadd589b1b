// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity of the system, representing a registered person.
// An account starts inactive (pending email activation) and becomes active
// exactly once; this transition is never reversed.
type Account struct {
	ID           uuid.UUID // The unique identifier, assigned by storage at creation.
	Email        string    // The unique login identifier; one account per email.
	PasswordHash string    // The bcrypt digest of the password. Never the plaintext, never serialized outward.
	FirstName    string    // Optional display name.
	LastName     string    // Optional display name.
	IsActive     bool      // False until the activation link is followed; monotonic false -> true.
	CreatedAt    time.Time // Timestamp of registration; listings are ordered by it, newest first.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
