package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/migrations"
	"github.com/mkhalikov/cryptolocker/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *userRepository) EnsureUser(ctx context.Context, telegramID int64) error {
	log := logger.FromContext(ctx)

	insert := r.DB.builder.
		Insert("users").
		Columns("telegram_id").
		Values(telegramID)

	// Both backends support an insert-if-absent suffix, they just spell
	// it differently.
	if r.DB.dialect == migrations.DialectPostgres {
		insert = insert.Suffix("ON CONFLICT (telegram_id) DO NOTHING")
	} else {
		insert = insert.Options("OR IGNORE")
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		log.Err(err).
			Str("func", "userRepository.EnsureUser").
			Int64("telegram_id", telegramID).
			Msg("failed to ensure users row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *userRepository) GetLang(ctx context.Context, telegramID int64) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.DB.builder.
		Select("lang").
		From("users").
		Where(sq.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var lang string
	scanErr := r.DB.QueryRowContext(ctx, query, args...).Scan(&lang)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.DefaultLang, nil
		}
		log.Err(scanErr).
			Str("func", "userRepository.GetLang").
			Int64("telegram_id", telegramID).
			Msg("failed to scan users row")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return lang, nil
}

func (r *userRepository) SetLang(ctx context.Context, telegramID int64, lang string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.DB.builder.
		Update("users").
		Set("lang", lang).
		Where(sq.Eq{"telegram_id": telegramID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.SetLang").
			Int64("telegram_id", telegramID).
			Str("lang", lang).
			Msg("failed to update users row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserUnknown
	}

	return nil
}
