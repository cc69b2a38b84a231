package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/migrations"
)

// DB wraps the shared *sql.DB handle together with the dialect it speaks and
// a squirrel statement builder configured with the matching placeholder
// format ("?" for SQLite, "$n" for PostgreSQL).
type DB struct {
	*sql.DB
	dialect migrations.Dialect
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// Migrate applies all pending schema migrations for the connected backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func newDB(conn *sql.DB, dialect migrations.Dialect, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == migrations.DialectPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:      conn,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger:  log,
	}
}
