package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// LoadSalt reads the deployment salt from path. The salt is generated once
// at installation and must never be regenerated: every stored ciphertext is
// bound to it, and losing it makes the vault permanently unrecoverable.
// Returns [ErrSaltFile] if the file is missing or holds fewer than
// [MinSaltLength] bytes.
func LoadSalt(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: not found at %s", ErrSaltFile, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrSaltFile, err)
	}

	if len(data) < MinSaltLength {
		return nil, fmt.Errorf("%w: must contain at least %d random bytes", ErrSaltFile, MinSaltLength)
	}

	return data, nil
}

// GenerateSaltFile creates a new salt file at path with owner-only
// permissions. It refuses to overwrite an existing file: replacing a salt
// silently would orphan all existing ciphertext.
func GenerateSaltFile(path string) error {
	salt := make([]byte, MinSaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("read random salt: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: already exists at %s, refusing to overwrite", ErrSaltFile, path)
		}
		return fmt.Errorf("create salt file: %w", err)
	}

	if _, err = f.Write(salt); err != nil {
		f.Close()
		return fmt.Errorf("write salt file: %w", err)
	}

	return f.Close()
}
