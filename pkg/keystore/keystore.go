// Package keystore ties key derivation, authenticated encryption, the
// binary container format and atomic storage into one engine.
//
// An engine instance owns one session over one keystore file: the decrypted
// store, the derived key and the current header. The key lives in a
// memguard locked buffer (mlock + guard pages) and is destroyed on Close,
// on Rekey, and on every error path that abandons it. There is no global
// state; callers thread the instance explicitly.
//
// Mutations are in-memory until Save is called, so several changes can be
// batched into a single encrypt-and-write. Save and Rekey complete their
// durability barriers before returning; a crash mid-save leaves the
// previous file intact.
package keystore

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/knestlabs/knest/pkg/crypto"
	"github.com/knestlabs/knest/pkg/format"
	"github.com/knestlabs/knest/pkg/storage"
	"github.com/knestlabs/knest/pkg/store"
)

var (
	// ErrExists guards Init: the target file already holds a keystore.
	ErrExists = errors.New("keystore already exists")
	// ErrNotExists guards Open: there is nothing at the target path.
	ErrNotExists = errors.New("keystore does not exist")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("keystore session is closed")
)

// Keystore is an open session over a keystore file.
type Keystore struct {
	store   *store.Store
	storage *storage.Storage
	key     *memguard.LockedBuffer
	header  format.Header
	codec   Codec
	closed  bool
}

// Option adjusts engine construction.
type Option func(*Keystore)

// WithCodec replaces the default JSON store codec.
func WithCodec(c Codec) Option {
	return func(k *Keystore) { k.codec = c }
}

// Init creates a new keystore at the storage path and opens a session on
// it. It fails with ErrExists if the path is already occupied. The password
// buffer is wiped before Init returns, success or not.
func Init(password []byte, st *storage.Storage, kdf crypto.KdfParams, opts ...Option) (*Keystore, error) {
	defer memguard.WipeBytes(password)

	if st.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrExists, st.Path())
	}
	if err := kdf.Validate(); err != nil {
		return nil, err
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}

	derived, err := crypto.DeriveKey(password, salt, kdf)
	if err != nil {
		return nil, err
	}

	k := &Keystore{
		store:   store.New(),
		storage: st,
		// NewBufferFromBytes wipes the source slice after copying it into
		// locked memory.
		key:   memguard.NewBufferFromBytes(derived),
		codec: jsonCodec{},
	}
	for _, opt := range opts {
		opt(k)
	}

	if err := k.writeEncrypted(kdf, salt); err != nil {
		k.Close()
		return nil, err
	}
	return k, nil
}

// Open loads an existing keystore and decrypts it with the given password.
// It fails with ErrNotExists when the path is empty, with a format error
// when the file is not a keystore (or a foreign version), and with
// crypto.ErrDecryptFailed when the password is wrong or the ciphertext is
// corrupted; the last two causes are deliberately indistinguishable. The
// password buffer is wiped before Open returns.
func Open(password []byte, st *storage.Storage, opts ...Option) (*Keystore, error) {
	defer memguard.WipeBytes(password)

	if !st.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotExists, st.Path())
	}

	data, err := st.Load()
	if err != nil {
		return nil, err
	}

	header, consumed, err := format.Parse(data)
	if err != nil {
		return nil, err
	}
	ciphertext := data[consumed:]

	derived, err := crypto.DeriveKey(password, header.Salt[:], header.KDF)
	if err != nil {
		return nil, err
	}
	key := memguard.NewBufferFromBytes(derived)

	plaintext, err := crypto.Decrypt(key.Bytes(), header.Nonce[:], ciphertext)
	if err != nil {
		key.Destroy()
		return nil, err
	}
	defer memguard.WipeBytes(plaintext)

	k := &Keystore{
		store:   store.New(),
		storage: st,
		key:     key,
		header:  header,
		codec:   jsonCodec{},
	}
	for _, opt := range opts {
		opt(k)
	}

	if err := k.codec.Unmarshal(plaintext, k.store); err != nil {
		k.Close()
		// A garbled plaintext that authenticated is a non-keystore payload
		// under our own format, which in practice means corruption. Keep
		// the same ambiguity as a failed decrypt.
		return nil, crypto.ErrDecryptFailed
	}
	return k, nil
}

// Set adds a new secret. In-memory only until Save.
func (k *Keystore) Set(key, value string) error {
	if k.closed {
		return ErrClosed
	}
	return k.store.Set(key, value)
}

// Get returns a secret value. After Close it reports not-found.
func (k *Keystore) Get(key string) (string, bool) {
	if k.closed {
		return "", false
	}
	return k.store.Get(key)
}

// Update replaces an existing secret's value. In-memory only until Save.
func (k *Keystore) Update(key, value string) error {
	if k.closed {
		return ErrClosed
	}
	return k.store.Update(key, value)
}

// Remove deletes a secret. In-memory only until Save.
func (k *Keystore) Remove(key string) error {
	if k.closed {
		return ErrClosed
	}
	return k.store.Remove(key)
}

// Keys lists secret names.
func (k *Keystore) Keys() []string {
	if k.closed {
		return nil
	}
	return k.store.Keys()
}

// Entries lists secrets with metadata.
func (k *Keystore) Entries() []store.SecretEntry {
	if k.closed {
		return nil
	}
	return k.store.Entries()
}

// Save re-encrypts the entire current store under the session key with a
// fresh nonce, reusing the existing salt and KDF parameters, and atomically
// replaces the file. Callers batch mutations and save once.
func (k *Keystore) Save() error {
	if k.closed {
		return ErrClosed
	}
	return k.writeEncrypted(k.header.KDF, k.header.Salt[:])
}

// Rekey re-encrypts the store under a key derived from a new password and
// new KDF parameters, with a fresh salt. Password changes and KDF cost
// upgrades both go through here; the header is replaced wholesale, never
// patched in place. The old key is destroyed only after the new file is
// durable. The newPassword buffer is wiped before Rekey returns.
func (k *Keystore) Rekey(newPassword []byte, newKdf crypto.KdfParams) error {
	defer memguard.WipeBytes(newPassword)

	if k.closed {
		return ErrClosed
	}
	if err := newKdf.Validate(); err != nil {
		return err
	}

	newSalt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	derived, err := crypto.DeriveKey(newPassword, newSalt, newKdf)
	if err != nil {
		return err
	}
	newKey := memguard.NewBufferFromBytes(derived)

	oldKey := k.key
	k.key = newKey
	if err := k.writeEncrypted(newKdf, newSalt); err != nil {
		// Restore the session key. In the common failure modes (marshal,
		// encrypt, temp-file write, replace) the file is untouched; if the
		// directory fsync failed after the replace, the file may already
		// hold the new key, and the next Save under the restored key
		// rewrites it.
		k.key = oldKey
		newKey.Destroy()
		return err
	}
	oldKey.Destroy()
	return nil
}

// Close ends the session and wipes the key material. Idempotent; after
// Close every mutation returns ErrClosed.
func (k *Keystore) Close() {
	if k.closed {
		return
	}
	k.closed = true
	if k.key != nil {
		k.key.Destroy()
	}
	k.store = nil
}

// writeEncrypted serializes, encrypts and atomically persists the store,
// then installs the header that matches what is now on disk.
func (k *Keystore) writeEncrypted(kdf crypto.KdfParams, salt []byte) error {
	plaintext, err := k.codec.Marshal(k.store)
	if err != nil {
		return fmt.Errorf("serialize store: %w", err)
	}
	defer memguard.WipeBytes(plaintext)

	ciphertext, nonce, err := crypto.Encrypt(k.key.Bytes(), plaintext)
	if err != nil {
		return err
	}

	header, err := format.New(kdf, salt, nonce)
	if err != nil {
		return err
	}
	headerBytes, err := header.Bytes()
	if err != nil {
		return err
	}

	if err := k.storage.Save(append(headerBytes, ciphertext...)); err != nil {
		return err
	}
	k.header = header
	return nil
}

// Info describes an open keystore for display purposes.
type Info struct {
	Path         string
	FileSize     int64
	CreationDate string
	SecretCount  int
	KDF          crypto.KdfParams
	Algorithm    string
	NonceLen     int
	Version      uint8
}

// Info reports path, size, creation date, secret count and the crypto
// parameters currently in effect.
func (k *Keystore) Info() (Info, error) {
	if k.closed {
		return Info{}, ErrClosed
	}

	meta, err := os.Stat(k.storage.Path())
	if err != nil {
		return Info{}, fmt.Errorf("stat keystore file: %w", err)
	}

	return Info{
		Path:         k.storage.Path(),
		FileSize:     meta.Size(),
		CreationDate: k.store.CreationDate.Format("2006-01-02 15:04:05 MST"),
		SecretCount:  k.store.Len(),
		KDF:          k.header.KDF,
		Algorithm:    "XChaCha20-Poly1305",
		NonceLen:     crypto.NonceLen,
		Version:      k.header.Version,
	}, nil
}
