package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const accountColumns = `id, name, email, password, is_admin, is_active, email_verified, is_deleted, last_login, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE email = $1 AND NOT is_deleted
		 `

	return r.queryOne(ctx, "users.FindByEmail", query, email)
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE name = $1 AND NOT is_deleted
		 `

	return r.queryOne(ctx, "users.FindByName", query, name)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1
		 `

	return r.queryOne(ctx, "users.FindByID", query, id)
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO users (name, email, password, is_admin, is_active, email_verified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + accountColumns + `
		 `

	return r.queryOne(ctx, "users.Create", query,
		account.Name, account.Email, account.PasswordHash,
		account.IsAdmin, account.IsActive, account.EmailVerified)
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE users
		 SET name = $1, email = $2, password = $3, is_admin = $4, is_active = $5,
		     email_verified = $6, is_deleted = $7, last_login = $8, updated_at = now()
		 WHERE id = $9
		 RETURNING ` + accountColumns + `
		 `

	return r.queryOne(ctx, "users.Update", query,
		account.Name, account.Email, account.PasswordHash, account.IsAdmin, account.IsActive,
		account.EmailVerified, account.IsDeleted, account.LastLogin, account.ID)
}

func (r *PostgresRepository) queryOne(ctx context.Context, op, query string, args ...any) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if field, ok := uniqueViolationField(err); ok {
			return nil, &common.ConflictError{Field: field}
		}
		return nil, &common.StorageError{Op: op, Err: err}
	}
	return account, nil
}

func scanAccount(row dbx.Scanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.IsAdmin, &a.IsActive,
		&a.EmailVerified, &a.IsDeleted, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// uniqueViolationField maps a unique_violation to the logical field named
// by its constraint.
func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}

	c := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(c, "email"):
		return "email", true
	case strings.Contains(c, "name"):
		return "name", true
	default:
		return "unique", true
	}
}
