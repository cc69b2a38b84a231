// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The CryptoLocker Authors

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mkhalikov/cryptolocker/models"
)

const (
	// DeriveIterations is the fixed PBKDF2 iteration count. Changing it
	// invalidates every key derived before the change, so it is a constant,
	// not configuration.
	DeriveIterations = 240_000

	// KeyLength is the derived key size in bytes (AES-256).
	KeyLength = 32

	// MinSaltLength is the minimum accepted salt size in bytes.
	MinSaltLength = 16
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	iterations int
	keyLen     int
}

// NewKeyChain constructs a [KeyChain] using PBKDF2-HMAC-SHA256 with
// [DeriveIterations] iterations for key derivation and AES-256-GCM for
// field encryption.
func NewKeyChain() KeyChain {
	return &keyChain{
		iterations: DeriveIterations,
		keyLen:     KeyLength,
	}
}

// DeriveKey implements [KeyChain]. It stretches passphrase and salt into a
// 256-bit key. The call is CPU-intensive on purpose: the iteration count is
// chosen so that brute-forcing the passphrase from leaked ciphertext stays
// expensive. Returns [ErrInvalidInput] if the passphrase is empty or the
// salt is shorter than [MinSaltLength].
func (k *keyChain) DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", ErrInvalidInput)
	}
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", ErrInvalidInput, MinSaltLength)
	}

	return pbkdf2.Key([]byte(passphrase), salt, k.iterations, k.keyLen, sha256.New), nil
}

// Encrypt implements [KeyChain]. It seals plaintext with key using
// AES-256-GCM. A random 12-byte nonce is prepended to the ciphertext so the
// decryption side can locate it: blob = nonce ‖ ciphertext. The blob is
// returned base64-encoded for storage in a text column.
func (k *keyChain) Encrypt(plaintext string, key []byte) (models.CipheredValue, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(nonce, ciphertext...)

	return models.CipheredValue(base64.StdEncoding.EncodeToString(blob)), nil
}

// Decrypt implements [KeyChain]. It base64-decodes the blob produced by
// [keyChain.Encrypt], splits out the nonce, and decrypts with key. Returns
// [ErrDecryption] if the blob is malformed, truncated, or fails the
// authentication check (wrong key or tampered ciphertext); partial or
// corrupted plaintext is never returned.
func (k *keyChain) Decrypt(ciphertext models.CipheredValue, key []byte) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(string(ciphertext))
	if err != nil {
		return "", fmt.Errorf("%w: malformed blob encoding", ErrDecryption)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: blob shorter than nonce", ErrDecryption)
	}

	nonce, ct := blob[:nonceSize], blob[nonceSize:]

	// An authentication failure here almost always means the process was
	// started with the wrong passphrase, producing a wrong key.
	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrInvalidInput, KeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}

// Wipe overwrites b with zeros. Used to drop key material and in-flight
// secret plaintext from memory as soon as it is no longer needed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
