package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/mkhalikov/cryptolocker/internal/crypto"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/store"
	"github.com/mkhalikov/cryptolocker/models"
)

const (
	// MaxNameLength bounds credential display names, in runes.
	MaxNameLength = 64

	// MaxSecretLength bounds usernames and passwords, in runes.
	MaxSecretLength = 512
)

// credentialService implements [Credentials] over an encrypted repository.
// It owns the master key for the lifetime of the process; repositories below
// it see only ciphertext and callers above it see only plaintext.
type credentialService struct {
	repo     store.CredentialRepository
	keychain crypto.KeyChain
	key      []byte
	logger   *logger.Logger
}

// NewCredentials constructs the credential service around the repository and
// the already-derived master key.
func NewCredentials(repo store.CredentialRepository, keychain crypto.KeyChain, key []byte, log *logger.Logger) Credentials {
	return &credentialService{
		repo:     repo,
		keychain: keychain,
		key:      key,
		logger:   log,
	}
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= MaxNameLength
}

func validSecret(value string) bool {
	n := utf8.RuneCountInString(value)
	return n >= 1 && n <= MaxSecretLength
}

func (s *credentialService) Add(ctx context.Context, ownerID int64, name, username, password string) (int64, error) {
	log := logger.FromContext(ctx)

	if !validName(name) {
		return 0, ErrInvalidName
	}
	if !validSecret(username) || !validSecret(password) {
		return 0, ErrInvalidSecret
	}

	cipherUser, err := s.keychain.Encrypt(username, s.key)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.Add").
			Int64("owner_id", ownerID).
			Msg("failed to encrypt username")
		return 0, fmt.Errorf("encrypting username: %w", err)
	}

	cipherPass, err := s.keychain.Encrypt(password, s.key)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.Add").
			Int64("owner_id", ownerID).
			Msg("failed to encrypt password")
		return 0, fmt.Errorf("encrypting password: %w", err)
	}

	id, err := s.repo.Create(ctx, models.Credential{
		OwnerID:  ownerID,
		Name:     name,
		Username: cipherUser,
		Password: cipherPass,
	})
	if err != nil {
		return 0, fmt.Errorf("storing credential: %w", err)
	}

	log.Info().
		Str("func", "credentialService.Add").
		Int64("owner_id", ownerID).
		Int64("id", id).
		Msg("credential stored")

	return id, nil
}

func (s *credentialService) Reveal(ctx context.Context, ownerID, id int64) (models.DecryptedCredential, error) {
	log := logger.FromContext(ctx)

	cred, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return models.DecryptedCredential{}, err
	}

	username, err := s.keychain.Decrypt(cred.Username, s.key)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.Reveal").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Msg("failed to decrypt username")
		return models.DecryptedCredential{}, fmt.Errorf("decrypting username: %w", err)
	}

	password, err := s.keychain.Decrypt(cred.Password, s.key)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.Reveal").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Msg("failed to decrypt password")
		return models.DecryptedCredential{}, fmt.Errorf("decrypting password: %w", err)
	}

	return models.DecryptedCredential{
		ID:        cred.ID,
		OwnerID:   cred.OwnerID,
		Name:      cred.Name,
		Username:  username,
		Password:  password,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

func (s *credentialService) Describe(ctx context.Context, ownerID, id int64) (models.CredentialSummary, error) {
	cred, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return models.CredentialSummary{}, err
	}
	return models.CredentialSummary{
		ID:        cred.ID,
		Name:      cred.Name,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

func (s *credentialService) UpdateField(ctx context.Context, ownerID, id int64, field models.CredentialField, plaintext string) error {
	log := logger.FromContext(ctx)

	if !field.Valid() {
		return store.ErrUnsupportedField
	}
	if !validSecret(plaintext) {
		return ErrInvalidSecret
	}

	// Read the current row first so the guarded update can detect a
	// concurrent writer between this read and the write below.
	cred, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	cipher, err := s.keychain.Encrypt(plaintext, s.key)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.UpdateField").
			Int64("owner_id", ownerID).
			Int64("id", id).
			Str("field", string(field)).
			Msg("failed to encrypt new value")
		return fmt.Errorf("encrypting value: %w", err)
	}

	if err = s.repo.UpdateField(ctx, ownerID, id, field, cipher, cred.UpdatedAt); err != nil {
		return err
	}

	log.Info().
		Str("func", "credentialService.UpdateField").
		Int64("owner_id", ownerID).
		Int64("id", id).
		Str("field", string(field)).
		Msg("credential field updated")

	return nil
}

func (s *credentialService) Remove(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContext(ctx)

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	log.Info().
		Str("func", "credentialService.Remove").
		Int64("owner_id", ownerID).
		Int64("id", id).
		Msg("credential removed")

	return nil
}

func (s *credentialService) List(ctx context.Context, ownerID int64) ([]models.CredentialSummary, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *credentialService) Search(ctx context.Context, ownerID int64, query string) ([]models.CredentialSummary, error) {
	return s.repo.Search(ctx, ownerID, query)
}
