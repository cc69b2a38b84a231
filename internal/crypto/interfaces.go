package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

import "github.com/mkhalikov/cryptolocker/models"

// KeyChain bundles key derivation and authenticated field encryption.
//
// DeriveKey is deterministic for a fixed (passphrase, salt) pair; the
// iteration count and hash are fixed constants so the same inputs always
// reproduce the same key across restarts. Encrypt and Decrypt operate on
// individual credential fields; the ciphertext is self-describing (the
// nonce is embedded) so the store can treat it as an opaque blob.
//
// Implementations must never log plaintext or key material, including on
// error paths.
type KeyChain interface {
	DeriveKey(passphrase string, salt []byte) ([]byte, error)
	Encrypt(plaintext string, key []byte) (models.CipheredValue, error)
	Decrypt(ciphertext models.CipheredValue, key []byte) (string, error)
}
