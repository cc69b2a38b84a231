package store

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/migrations"
)

func TestNewDB_PlaceholderPerDialect(t *testing.T) {
	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer conn.Close()

	sqliteDB := newDB(conn, migrations.DialectSQLite, logger.Nop())
	query, _, err := sqliteDB.builder.
		Select("lang").From("users").Where(sq.Eq{"telegram_id": 7}).ToSql()
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(query, "telegram_id = ?") {
		t.Errorf("sqlite builder produced %q, want question placeholders", query)
	}

	pgDB := newDB(conn, migrations.DialectPostgres, logger.Nop())
	query, _, err = pgDB.builder.
		Select("lang").From("users").Where(sq.Eq{"telegram_id": 7}).ToSql()
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	if !strings.Contains(query, "telegram_id = $1") {
		t.Errorf("postgres builder produced %q, want dollar placeholders", query)
	}
}
