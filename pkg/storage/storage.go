// Package storage persists opaque byte buffers crash-safely.
//
// Save follows a temp-file-then-replace protocol so that a process crash or
// power loss at any point leaves either the previous complete file or the
// new complete file on disk, never a truncated or mixed one. The package
// has no cryptographic awareness; callers hand it fully encoded blobs.
//
// Only single-writer crash safety is provided. Two processes saving to the
// same path race, and the last writer wins.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned by Load when no file exists at the path.
	ErrNotFound = errors.New("keystore file not found")
	// ErrTempCollision is returned when the freshly generated temp filename
	// unexpectedly already exists. The temp file is created with exclusive
	// semantics; a stray file is never silently overwritten.
	ErrTempCollision = errors.New("temp file name collision")
)

// Storage persists a single file at a fixed path.
type Storage struct {
	path string
}

// New returns a Storage bound to path. The file need not exist yet.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the target file path.
func (s *Storage) Path() string {
	return s.path
}

// Exists reports whether the target file exists.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the entire file into memory.
func (s *Storage) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Save atomically replaces the target file with data.
//
// The protocol: create the parent directory if missing; write data to an
// exclusively created temp file in the same directory (same filesystem, so
// the final replace is atomic); fsync the temp file; replace the target;
// fsync the parent directory so the replace itself survives a crash. If the
// replace fails the temp file is removed and the target is untouched.
func (s *Storage) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmpPath, err := s.tempPath()
	if err != nil {
		return err
	}

	// O_EXCL: the random suffix should make collisions unreachable, and a
	// hit on an existing name is suspicious enough to abort.
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrTempCollision, tmpPath)
		}
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := writeAndSync(f, data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := replaceFile(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	if err := syncDir(dir); err != nil {
		return fmt.Errorf("sync directory %s: %w", dir, err)
	}
	return nil
}

// tempPath builds a sibling temp filename with 64 bits of random suffix.
func (s *Storage) tempPath() (string, error) {
	var suffix [8]byte
	if _, err := io.ReadFull(rand.Reader, suffix[:]); err != nil {
		return "", fmt.Errorf("generate temp suffix: %w", err)
	}
	name := fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), hex.EncodeToString(suffix[:]))
	return filepath.Join(filepath.Dir(s.path), name), nil
}

// writeAndSync writes data fully and forces it to stable storage. A crash
// after this point must never be able to produce a half-written temp file
// that later gets renamed over the target.
func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	return nil
}
