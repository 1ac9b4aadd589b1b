// Package repository defines the interfaces for the persistence layer.
package repository

import "context"

// RepositoryFactory hands out repository instances bound to one transaction.
type RepositoryFactory interface {
	AccountRepo() AccountRepository
}

// TransactionManager runs a unit of work inside a single database
// transaction. Activation and password change use it so their
// read-check-write sequences commit or roll back as one.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
