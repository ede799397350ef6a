// Package store holds the decrypted secret map of an open keystore.
//
// The store is plain data plus CRUD rules; it knows nothing about crypto or
// persistence. The whole store is serialized, encrypted and written as one
// unit, so mutations here never touch disk by themselves.
package store

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrKeyExists is returned by Set when the key is already present.
	ErrKeyExists = errors.New("secret already exists")
	// ErrKeyNotFound is returned by Update and Remove for absent keys.
	ErrKeyNotFound = errors.New("secret not found")
)

// SecretEntry is a single named secret. Updated is set at creation and
// refreshed on every value change.
type SecretEntry struct {
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	Updated time.Time `json:"updated"`
}

// Store is the exact plaintext that gets encrypted: the secret map plus the
// keystore creation timestamp. CreationDate is fixed at construction.
//
// The struct's fields are exported for the benefit of the serialization
// codec; all mutation goes through the methods, which enforce the
// create/update distinction.
type Store struct {
	Secrets      map[string]SecretEntry `json:"secrets"`
	CreationDate time.Time              `json:"creation_date"`
}

// New returns an empty store stamped with the current time.
func New() *Store {
	return &Store{
		Secrets:      make(map[string]SecretEntry),
		CreationDate: time.Now().UTC(),
	}
}

// Set inserts a new secret. It refuses to overwrite: replacing an existing
// value is an explicit Update.
func (s *Store) Set(key, value string) error {
	if _, ok := s.Secrets[key]; ok {
		return fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	s.Secrets[key] = SecretEntry{Key: key, Value: value, Updated: time.Now().UTC()}
	return nil
}

// Get returns the secret value for key, and whether it exists.
func (s *Store) Get(key string) (string, bool) {
	entry, ok := s.Secrets[key]
	return entry.Value, ok
}

// Update replaces the value of an existing secret and refreshes its
// timestamp.
func (s *Store) Update(key, value string) error {
	entry, ok := s.Secrets[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	entry.Value = value
	entry.Updated = time.Now().UTC()
	s.Secrets[key] = entry
	return nil
}

// Remove deletes a secret.
func (s *Store) Remove(key string) error {
	if _, ok := s.Secrets[key]; !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	delete(s.Secrets, key)
	return nil
}

// Len returns the number of stored secrets.
func (s *Store) Len() int {
	return len(s.Secrets)
}

// Keys returns a snapshot of all secret names. Map iteration order is not
// meaningful; callers wanting stable output sort the result.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.Secrets))
	for k := range s.Secrets {
		keys = append(keys, k)
	}
	return keys
}

// Entries returns a snapshot of all secrets with their metadata.
func (s *Store) Entries() []SecretEntry {
	entries := make([]SecretEntry, 0, len(s.Secrets))
	for _, e := range s.Secrets {
		entries = append(entries, e)
	}
	return entries
}
