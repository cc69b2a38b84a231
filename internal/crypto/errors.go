package crypto

import "errors"

// Sentinel errors returned by the keychain. Callers should match with
// [errors.Is]. Error values deliberately carry no plaintext, key bytes, or
// ciphertext fragments.
var (
	// ErrInvalidInput is returned when a derivation or encryption argument
	// fails a precondition: empty passphrase, short salt, or a key of the
	// wrong length.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecryption is returned when a ciphertext cannot be authenticated
	// and decrypted: wrong key, tampered blob, or truncation. Corrupted
	// plaintext is never returned.
	ErrDecryption = errors.New("decryption failed")

	// ErrSaltFile is returned when the persisted salt file is missing,
	// unreadable, or shorter than the minimum salt length.
	ErrSaltFile = errors.New("invalid salt file")
)
