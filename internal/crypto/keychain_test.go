package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/mkhalikov/cryptolocker/models"
)

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	kc := NewKeyChain()

	passphrase := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1, err := kc.DeriveKey(passphrase, salt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := kc.DeriveKey(passphrase, salt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected identical keys for same passphrase+salt")
	}
}

func TestDeriveKey_DifferentInputsProduceDifferentKeys(t *testing.T) {
	kc := NewKeyChain()

	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	k1, err := kc.DeriveKey("passphrase", salt1)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := kc.DeriveKey("passphrase", salt2)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k3, err := kc.DeriveKey("other passphrase", salt1)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different keys for different salts")
	}
	if bytes.Equal(k1, k3) {
		t.Fatalf("expected different keys for different passphrases")
	}
}

func TestDeriveKey_RejectsBadInputs(t *testing.T) {
	kc := NewKeyChain()

	if _, err := kc.DeriveKey("", bytes.Repeat([]byte{0x01}, 16)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty passphrase: expected ErrInvalidInput, got %v", err)
	}
	if _, err := kc.DeriveKey("passphrase", []byte("short")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short salt: expected ErrInvalidInput, got %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x2A}, 32)

	for _, plaintext := range []string{"", "p@ss1234", "me@example.com", "юникод и فارسی"} {
		ct, err := kc.Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plaintext, err)
		}
		if string(ct) == plaintext && plaintext != "" {
			t.Fatalf("ciphertext equals plaintext")
		}

		got, err := kc.Decrypt(ct, key)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestEncrypt_NonceRandomness(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x2A}, 32)

	c1, err := kc.Encrypt("same value", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	c2, err := kc.Encrypt("same value", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if c1 == c2 {
		t.Fatalf("expected different blobs for two encryptions of the same value")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)
	wrongKey := bytes.Repeat([]byte{0x22}, 32)

	ct, err := kc.Encrypt("secret", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if _, err = kc.Decrypt(ct, wrongKey); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for wrong key, got %v", err)
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	ct, err := kc.Encrypt("secret", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	blob, err := base64.StdEncoding.DecodeString(string(ct))
	if err != nil {
		t.Fatalf("decode blob: %v", err)
	}

	// Flip one byte at every position; decryption must fail every time.
	for i := range blob {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[i] ^= 0xFF

		in := models.CipheredValue(base64.StdEncoding.EncodeToString(tampered))
		if _, err = kc.Decrypt(in, key); !errors.Is(err, ErrDecryption) {
			t.Fatalf("byte %d: expected ErrDecryption for tampered blob, got %v", i, err)
		}
	}
}

func TestDecrypt_TruncatedAndMalformedBlobsFail(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	if _, err := kc.Decrypt("%%% not base64 %%%", key); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for malformed encoding, got %v", err)
	}

	short := models.CipheredValue(base64.StdEncoding.EncodeToString([]byte("tiny")))
	if _, err := kc.Decrypt(short, key); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for truncated blob, got %v", err)
	}
}

func TestEncrypt_RejectsBadKeyLength(t *testing.T) {
	kc := NewKeyChain()

	if _, err := kc.Encrypt("secret", []byte("short key")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short key, got %v", err)
	}
}

func TestWipe_ZeroesBuffer(t *testing.T) {
	buf := []byte("sensitive bytes")
	Wipe(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}
