package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/migrations"
	"github.com/mkhalikov/cryptolocker/models"
)

// credentialRepository is the SQL-backed implementation of
// [CredentialRepository]. It executes all credential CRUD operations against
// the "credentials" table using the embedded [*DB] connection; the same code
// serves both backends because every query is built through the DB's
// placeholder-aware statement builder.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (owner_id, credential id). Ciphertext values and
// plaintext names are never logged.
type credentialRepository struct {
	*DB
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	return &credentialRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *credentialRepository) Create(ctx context.Context, cred models.Credential) (int64, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	insert := r.DB.builder.
		Insert("credentials").
		Columns("owner_id", "name", "username", "password", "created_at", "updated_at").
		Values(cred.OwnerID, cred.Name, string(cred.Username), string(cred.Password), now, now)

	var id int64
	var err error

	// PostgreSQL cannot report LastInsertId through database/sql, so the
	// two backends take different paths to obtain the generated id.
	if r.DB.dialect == migrations.DialectPostgres {
		query, args, buildErr := insert.Suffix("RETURNING id").ToSql()
		if buildErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		err = r.DB.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		query, args, buildErr := insert.ToSql()
		if buildErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		var res sql.Result
		res, err = r.DB.ExecContext(ctx, query, args...)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}

	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrOwnerUnknown
		}
		log.Err(err).
			Str("func", "credentialRepository.Create").
			Int64("owner_id", cred.OwnerID).
			Msg("failed to insert credential")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (r *credentialRepository) Get(ctx context.Context, ownerID, id int64) (models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.DB.builder.
		Select("id", "owner_id", "name", "username", "password", "created_at", "updated_at").
		From("credentials").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		cred               models.Credential
		username, password string
	)
	scanErr := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&cred.ID,
		&cred.OwnerID,
		&cred.Name,
		&username,
		&password,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Credential{}, ErrCredentialNotFound
		}
		log.Err(scanErr).
			Str("func", "credentialRepository.Get").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Msg("failed to scan credential row")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	cred.Username = models.CipheredValue(username)
	cred.Password = models.CipheredValue(password)

	return cred, nil
}

func (r *credentialRepository) List(ctx context.Context, ownerID int64) ([]models.CredentialSummary, error) {
	q := r.DB.builder.
		Select("id", "name", "updated_at").
		From("credentials").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("updated_at DESC")

	return r.querySummaries(ctx, ownerID, q, "credentialRepository.List")
}

func (r *credentialRepository) Search(ctx context.Context, ownerID int64, query string) ([]models.CredentialSummary, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.DB.builder.
		Select("id", "name", "updated_at").
		From("credentials").
		Where(sq.Eq{"owner_id": ownerID}).
		Where("LOWER(name) LIKE ?", pattern).
		OrderBy("updated_at DESC")

	return r.querySummaries(ctx, ownerID, q, "credentialRepository.Search")
}

func (r *credentialRepository) querySummaries(ctx context.Context, ownerID int64, q sq.SelectBuilder, caller string) ([]models.CredentialSummary, error) {
	log := logger.FromContext(ctx)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Int64("owner_id", ownerID).
			Msg("failed to execute query for credential summaries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.CredentialSummary
	for rows.Next() {
		var item models.CredentialSummary
		if scanErr := rows.Scan(&item.ID, &item.Name, &item.UpdatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", caller).
				Int64("owner_id", ownerID).
				Msg("failed to scan credential summary row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", caller).
			Int64("owner_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}

	return items, nil
}

func (r *credentialRepository) UpdateField(ctx context.Context, ownerID, id int64, field models.CredentialField, value models.CipheredValue, prevUpdatedAt time.Time) error {
	log := logger.FromContext(ctx)

	if !field.Valid() {
		return ErrUnsupportedField
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.DB.builder.
		Update("credentials").
		Set(string(field), string(value)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "owner_id": ownerID, "updated_at": prevUpdatedAt}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.UpdateField").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Str("field", string(field)).
			Msg("failed to execute guarded update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		// Distinguish a concurrent modification from a missing row.
		existsQuery, existsArgs, buildErr := r.DB.builder.
			Select("1").
			From("credentials").
			Where(sq.Eq{"id": id, "owner_id": ownerID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		var one int
		scanErr := tx.QueryRowContext(ctx, existsQuery, existsArgs...).Scan(&one)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return ErrCredentialNotFound
		}
		if scanErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
		}
		return ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

func (r *credentialRepository) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.DB.builder.
		Delete("credentials").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Delete").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Msg("failed to execute delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}
