// Package crypt seals small values at rest with XChaCha20-Poly1305.
//
// Ciphertext is base64url-encoded and carries its random nonce as a prefix,
// so a sealed value is a single string that fits any key-value slot:
//
//	s, _ := crypt.New(secret)
//	enc, _ := s.Seal([]byte(`{"token":"..."}`))
//	plain, err := s.Open(enc)
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// Sealer encrypts and decrypts with a key derived from a secret.
type Sealer struct {
	key [chacha20poly1305.KeySize]byte
}

// New derives a 32-byte key from secret via SHA-256.
func New(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("crypt: empty secret")
	}
	return &Sealer{key: sha256.Sum256([]byte(secret))}, nil
}

// Seal encrypts data and returns base64url(nonce || ciphertext || tag).
func (s *Sealer) Seal(data []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return "", fmt.Errorf("crypt: new aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Any tampering or a wrong key yields ErrDecrypt.
func (s *Sealer) Open(encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}

	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new aead: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return nil, ErrDecrypt
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}
