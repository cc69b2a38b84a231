package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/migrations"
	"github.com/mkhalikov/cryptolocker/models"
)

func newTestUserRepo(t *testing.T, dialect migrations.Dialect) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	l := logger.Nop()
	repo := &userRepository{
		DB:     newDB(db, dialect, l),
		logger: l,
	}
	return repo, mock, db
}

func TestEnsureUser_SQLite(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectExec("INSERT OR IGNORE INTO users").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.EnsureUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureUser_Postgres(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectPostgres)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users .+ ON CONFLICT .+ DO NOTHING").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.EnsureUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureUser_AlreadyExists(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	uniqueErr := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}
	mock.ExpectExec("INSERT OR IGNORE INTO users").
		WithArgs(int64(7)).
		WillReturnError(uniqueErr)

	if err := repo.EnsureUser(context.Background(), 7); err != nil {
		t.Fatalf("expected nil for existing user, got %v", err)
	}
}

func TestGetLang_Stored(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT lang FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"lang"}).AddRow("fa"))

	lang, err := repo.GetLang(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != models.LangFA {
		t.Errorf("expected fa, got %s", lang)
	}
}

func TestGetLang_DefaultsWhenUnknownUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT lang FROM users").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	lang, err := repo.GetLang(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != models.DefaultLang {
		t.Errorf("expected default lang, got %s", lang)
	}
}

func TestSetLang(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET lang").
		WithArgs("fa", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetLang(context.Background(), 7, models.LangFA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetLang_UnknownUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET lang").
		WithArgs("fa", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetLang(context.Background(), 99, models.LangFA)
	if !errors.Is(err, ErrUserUnknown) {
		t.Fatalf("expected ErrUserUnknown for zero-row update, got %v", err)
	}
}

func TestSetLang_ExecFailure(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, migrations.DialectSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET lang").
		WillReturnError(errors.New("disk I/O error"))

	err := repo.SetLang(context.Background(), 7, models.LangFA)
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}
