package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Uniqueness of name and
// email among non-deleted accounts is enforced under one lock, so concurrent
// creates behave like a database unique index.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[int64]models.Account
	lastID   int64
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[int64]models.Account),
		now:      time.Now,
	}
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email && !a.IsDeleted })
}

func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Name == name && !a.IsDeleted })
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &common.StorageError{Op: "users.Create", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(account, 0); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	r.lastID++

	a := *account
	a.ID = r.lastID
	a.LastLogin = now
	a.CreatedAt = now
	a.UpdatedAt = now
	r.accounts[a.ID] = a

	return &a, nil
}

func (r *MemoryRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &common.StorageError{Op: "users.Update", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !account.IsDeleted {
		if err := r.checkUnique(account, account.ID); err != nil {
			return nil, err
		}
	}

	a := *account
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = r.now().UTC()
	r.accounts[a.ID] = a

	return &a, nil
}

// Len returns the number of stored accounts, deleted ones included.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *MemoryRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if match(&a) {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

// checkUnique must be called with mu held.
func (r *MemoryRepository) checkUnique(account *models.Account, selfID int64) error {
	for id, a := range r.accounts {
		if id == selfID || a.IsDeleted {
			continue
		}
		if a.Email == account.Email {
			return &common.ConflictError{Field: "email"}
		}
		if a.Name == account.Name {
			return &common.ConflictError{Field: "name"}
		}
	}
	return nil
}
