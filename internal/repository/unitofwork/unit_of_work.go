package unitofwork

import (
	"context"
	"errors"

	"physical-ai-textbook-be/internal/repository/contract"
)

var (
	ErrTransactionActive = errors.New("transaction already started")
	ErrNoTransaction     = errors.New("no transaction in progress")
)

// UnitOfWork hands out repositories that share one connection. Between Begin and
// Commit every repository it returns writes through the same transaction.
// Rollback without an open transaction is a no-op, so it can always be deferred.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserProfileRepository() contract.UserProfileRepository
	AuditLogRepository() contract.AuditLogRepository
}

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
