package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/mkhalikov/cryptolocker/models"
)

// CredentialRepository persists credential rows. Secret columns arrive and
// leave as [models.CipheredValue] blobs; the repository never sees plaintext
// secrets.
type CredentialRepository interface {
	// Create inserts a new credential scoped to its owner and returns the
	// assigned id. Display names are not required to be unique per owner.
	Create(ctx context.Context, cred models.Credential) (int64, error)

	// Get returns the credential with the given id belonging to ownerID.
	// Returns ErrCredentialNotFound when no such row exists for that owner.
	Get(ctx context.Context, ownerID, id int64) (models.Credential, error)

	// List returns all of the owner's credentials as summaries, most
	// recently updated first.
	List(ctx context.Context, ownerID int64) ([]models.CredentialSummary, error)

	// Search returns summaries whose display name contains query
	// (case-insensitive), most recently updated first.
	Search(ctx context.Context, ownerID int64, query string) ([]models.CredentialSummary, error)

	// UpdateField re-writes one ciphertext column and bumps updated_at.
	// The update is guarded by prevUpdatedAt: if another writer has touched
	// the row since the caller read it, ErrVersionConflict is returned and
	// nothing is written.
	UpdateField(ctx context.Context, ownerID, id int64, field models.CredentialField, value models.CipheredValue, prevUpdatedAt time.Time) error

	// Delete removes the credential. Returns ErrCredentialNotFound when the
	// row is already gone, which repeat callers may safely ignore.
	Delete(ctx context.Context, ownerID, id int64) error
}

// UserRepository persists per-user preferences.
type UserRepository interface {
	// EnsureUser inserts the users row for telegramID if it does not exist.
	EnsureUser(ctx context.Context, telegramID int64) error

	// GetLang returns the user's stored language, or models.DefaultLang
	// when the user has no row yet.
	GetLang(ctx context.Context, telegramID int64) (string, error)

	// SetLang stores the user's language selection.
	SetLang(ctx context.Context, telegramID int64, lang string) error
}
