package models

import "time"

// CipheredValue is an encrypted credential field as stored at rest: the
// base64 encoding of nonce ‖ ciphertext produced by the vault. The store
// treats it as an opaque blob and never inspects or logs its contents.
type CipheredValue string

// CredentialField names a credential column that may be edited after
// creation. Only the two secret columns are editable; the display name is
// fixed at creation time.
type CredentialField string

const (
	FieldUsername CredentialField = "username"
	FieldPassword CredentialField = "password"
)

// Valid reports whether f is one of the editable credential fields.
func (f CredentialField) Valid() bool {
	return f == FieldUsername || f == FieldPassword
}

// Credential is a stored login record as it exists in the database:
// the display name in plaintext (the only field allowed in plaintext, used
// for listing and search) and the username/password as ciphered blobs.
type Credential struct {
	ID        int64
	OwnerID   int64
	Name      string
	Username  CipheredValue
	Password  CipheredValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecryptedCredential is a credential with its secret fields decrypted.
// Instances are short-lived: they exist only between a read and the
// rendering of a show response, and are never persisted or logged.
type DecryptedCredential struct {
	ID        int64
	OwnerID   int64
	Name      string
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CredentialSummary is the listing/search projection of a credential:
// identifier and display name only, never secret material.
type CredentialSummary struct {
	ID        int64
	Name      string
	UpdatedAt time.Time
}
