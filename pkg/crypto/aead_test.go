package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSaltAndNonce(t *testing.T) {
	t.Parallel()

	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltLen)

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	assert.Len(t, nonce, NonceLen)

	salt2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte{0x11}, KeyLen)

	for _, plaintext := range [][]byte{
		[]byte("secret data"),
		{},
		bytes.Repeat([]byte{0}, 4096),
	} {
		ciphertext, nonce, err := Encrypt(key, plaintext)
		require.NoError(t, err)
		assert.Len(t, nonce, NonceLen)
		// Poly1305 tag adds 16 bytes.
		assert.Len(t, ciphertext, len(plaintext)+16)

		got, err := Decrypt(key, nonce, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte{0x22}, KeyLen)

	_, n1, err := Encrypt(key, []byte("x"))
	require.NoError(t, err)
	_, n2, err := Encrypt(key, []byte("x"))
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
}

func TestDecryptFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte{0x33}, KeyLen)
	ciphertext, nonce, err := Encrypt(key, []byte("payload"))
	require.NoError(t, err)

	// Wrong key.
	wrongKey := bytes.Repeat([]byte{0x44}, KeyLen)
	_, err = Decrypt(wrongKey, nonce, ciphertext)
	assert.ErrorIs(t, err, ErrDecryptFailed)

	// Every single flipped bit must be detected.
	for i := range ciphertext {
		tampered := bytes.Clone(ciphertext)
		tampered[i] ^= 0x01
		_, err = Decrypt(key, nonce, tampered)
		assert.ErrorIs(t, err, ErrDecryptFailed, "flipped byte %d went undetected", i)
	}

	// Truncated ciphertext.
	_, err = Decrypt(key, nonce, ciphertext[:8])
	assert.ErrorIs(t, err, ErrDecryptFailed)

	// Bad nonce length.
	_, err = Decrypt(key, nonce[:4], ciphertext)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}
