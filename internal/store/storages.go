package store

import (
	"context"
	"strings"

	"github.com/mkhalikov/cryptolocker/internal/logger"
)

// Storages bundles the repositories the rest of the application depends on,
// together with the underlying connection handle.
type Storages struct {
	DB          *DB
	Credentials CredentialRepository
	Users       UserRepository
}

// NewStorages connects to the database selected by dsn and constructs all
// repositories over it. A DSN with a postgres scheme selects the PostgreSQL
// backend; anything else is treated as a SQLite file path (the default
// single-binary deployment).
func NewStorages(ctx context.Context, dsn string, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = NewConnectPostgres(ctx, dsn, log)
	} else {
		db, err = NewConnectSQLite(ctx, dsn, log)
	}
	if err != nil {
		return nil, err
	}

	return &Storages{
		DB:          db,
		Credentials: NewCredentialRepository(db, log),
		Users:       NewUserRepository(db, log),
	}, nil
}
