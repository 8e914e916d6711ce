// Package users stores accounts. Lookups of an absent account return
// common.ErrorNotFound, a unique-constraint violation on create or update
// returns *common.ConflictError, and any other storage failure is a
// *common.StorageError.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByName(ctx context.Context, name string) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	// Create assigns the id and timestamps of account and returns the
	// persisted row.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// Update persists the full state of account, refreshes UpdatedAt and
	// returns the persisted row.
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
}
