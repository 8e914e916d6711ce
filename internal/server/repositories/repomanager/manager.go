// Package repomanager owns the storage backend of the server: it opens the
// database, applies migrations and vends the account repository.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Users() users.Repository
	Close() error
}

// New picks a backend by DSN. An empty DSN selects the in-memory store.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
