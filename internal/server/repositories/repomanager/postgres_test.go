package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func stubOpen(t *testing.T, db *sql.DB, openErr error) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			t.Errorf("driver = %q, want pgx", driver)
		}
		return db, openErr
	}
	t.Cleanup(func() { sqlOpen = orig })
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestNewPostgresRepositoryManager_Success(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectPing()
	stubOpen(t, db, nil)
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	})

	m, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var _ RepositoryManager = m
	var _ users.Repository = m.Users()
	if _, ok := m.Users().(*users.PostgresRepository); !ok {
		t.Fatalf("Users() = %T, want *users.PostgresRepository", m.Users())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestNewPostgresRepositoryManager_OpenError(t *testing.T) {
	stubOpen(t, nil, errors.New("bad dsn"))

	_, err := NewPostgresRepositoryManager(context.Background(), "nope")
	if err == nil || err.Error() != "db open error: bad dsn" {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestNewPostgresRepositoryManager_PingError(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()
	stubOpen(t, db, nil)

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	if err == nil || err.Error() != "db ping error: refused" {
		t.Fatalf("expected ping error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestNewPostgresRepositoryManager_MigrationError(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectPing()
	mock.ExpectClose()
	stubOpen(t, db, nil)
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	if err == nil || err.Error() != "migration error: boom" {
		t.Fatalf("expected migration error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	m := newPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNew_EmptyDSNSelectsMemory(t *testing.T) {
	m, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*InMemoryRepositoryManager); !ok {
		t.Fatalf("New(\"\") = %T, want *InMemoryRepositoryManager", m)
	}
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	if _, ok := m.Users().(*users.MemoryRepository); !ok {
		t.Fatalf("Users() = %T, want *users.MemoryRepository", m.Users())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
