// Package crypto provides the cryptographic primitives behind the keystore:
// Argon2id key derivation and XChaCha20-Poly1305 authenticated encryption.
//
// The package is deliberately small. It knows nothing about file formats or
// persistence; it turns passwords into keys and plaintext into sealed blobs.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SaltLen is the length of the key-derivation salt in bytes.
	SaltLen = 16
	// NonceLen is the XChaCha20-Poly1305 nonce length in bytes.
	NonceLen = chacha20poly1305.NonceSizeX
	// KeyLen is the length of the derived encryption key in bytes.
	KeyLen = chacha20poly1305.KeySize
)

var (
	// ErrRandomUnavailable is returned when the OS entropy source cannot be
	// read. Fatal; there is no sensible retry.
	ErrRandomUnavailable = errors.New("os random source unavailable")

	// ErrDecryptFailed covers every decryption failure: wrong key, truncated
	// ciphertext, or tampered bytes. The causes are intentionally not
	// distinguished so a captured keystore file cannot be used as a
	// password-testing oracle.
	ErrDecryptFailed = errors.New("invalid password or corrupted data")
)

func secureRandom(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomUnavailable, err)
	}
	return nil
}

// GenerateSalt returns a fresh random salt for key derivation.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if err := secureRandom(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateNonce returns a fresh random XChaCha20-Poly1305 nonce.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceLen)
	if err := secureRandom(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// Encrypt seals plaintext under key with XChaCha20-Poly1305 and returns the
// ciphertext (including the auth tag) together with the nonce used. A fresh
// nonce is drawn per call; nonces must never repeat under the same key,
// which is why every save generates a new one.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce, err = GenerateNonce()
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext under key and nonce, verifying the auth tag.
// Any failure is reported as ErrDecryptFailed without further detail.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(nonce) != NonceLen {
		return nil, ErrDecryptFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
