package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/mkhalikov/cryptolocker/models"
)

// Credentials is the application-level credential API. Callers hand over
// plaintext secrets and receive plaintext back; all encryption and
// decryption happens inside the service so nothing above it ever needs the
// master key.
type Credentials interface {
	// Add validates, encrypts and stores a new credential, returning the
	// assigned id.
	Add(ctx context.Context, ownerID int64, name, username, password string) (int64, error)

	// Reveal loads the credential and decrypts both secret fields.
	Reveal(ctx context.Context, ownerID, id int64) (models.DecryptedCredential, error)

	// Describe returns the credential's summary without touching the
	// encrypted fields. Used wherever only the display name is needed.
	Describe(ctx context.Context, ownerID, id int64) (models.CredentialSummary, error)

	// UpdateField re-encrypts one secret field with a new plaintext value.
	UpdateField(ctx context.Context, ownerID, id int64, field models.CredentialField, plaintext string) error

	// Remove deletes the credential.
	Remove(ctx context.Context, ownerID, id int64) error

	// List returns all of the owner's credentials, most recently updated
	// first.
	List(ctx context.Context, ownerID int64) ([]models.CredentialSummary, error)

	// Search returns credentials whose display name contains query,
	// case-insensitively, most recently updated first.
	Search(ctx context.Context, ownerID int64, query string) ([]models.CredentialSummary, error)
}

// Preferences manages per-user settings.
type Preferences interface {
	// EnsureUser registers the user on first contact.
	EnsureUser(ctx context.Context, userID int64) error

	// Language returns the user's display language.
	Language(ctx context.Context, userID int64) (string, error)

	// SetLanguage stores a new display language for the user.
	SetLanguage(ctx context.Context, userID int64, lang string) error
}
