package service

import (
	"context"
	"fmt"

	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/store"
	"github.com/mkhalikov/cryptolocker/models"
)

// preferenceService implements [Preferences] over the users repository.
type preferenceService struct {
	repo   store.UserRepository
	logger *logger.Logger
}

// NewPreferences constructs the preference service.
func NewPreferences(repo store.UserRepository, log *logger.Logger) Preferences {
	return &preferenceService{
		repo:   repo,
		logger: log,
	}
}

func (s *preferenceService) EnsureUser(ctx context.Context, userID int64) error {
	if err := s.repo.EnsureUser(ctx, userID); err != nil {
		return fmt.Errorf("registering user: %w", err)
	}
	return nil
}

func (s *preferenceService) Language(ctx context.Context, userID int64) (string, error) {
	lang, err := s.repo.GetLang(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading language: %w", err)
	}
	return lang, nil
}

func (s *preferenceService) SetLanguage(ctx context.Context, userID int64, lang string) error {
	log := logger.FromContext(ctx)

	if !models.SupportedLang(lang) {
		return ErrUnsupportedLanguage
	}

	if err := s.repo.SetLang(ctx, userID, lang); err != nil {
		return fmt.Errorf("storing language: %w", err)
	}

	log.Info().
		Str("func", "preferenceService.SetLanguage").
		Int64("user_id", userID).
		Str("lang", lang).
		Msg("language updated")

	return nil
}
