// Package format implements the versioned binary container prefix of a
// keystore file. The header carries everything needed to re-derive the
// encryption key and locate the ciphertext:
//
//	MAGIC (4) | VERSION (1) | MEM_COST (4) | TIME_COST (4) | PARALLELISM (4) | SALT (16) | NONCE (24)
//
// followed immediately by the ciphertext. All integers are little-endian.
// This is a wire format: the byte layout is bit-exact across
// implementations and must stay that way.
//
// Parsing dispatches on the version byte so a future header shape can
// coexist with v1; only the magic and version bytes are version-independent.
package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/knestlabs/knest/pkg/crypto"
)

// Magic identifies a keystore file.
var Magic = []byte("KNST")

const (
	magicLen   = 4
	versionLen = 1

	// VersionV1 is the only header version in existence today.
	VersionV1 uint8 = 1
	// CurrentVersion is the version written for new keystores.
	CurrentVersion = VersionV1
)

var (
	// ErrTooShort means the buffer ends before the header does.
	ErrTooShort = errors.New("keystore file too short")
	// ErrBadMagic means the file does not start with the KNST magic and is
	// not a keystore at all.
	ErrBadMagic = errors.New("not a keystore file")
	// ErrUnsupportedVersion means the magic matched but the version byte is
	// unknown to this build, likely a file from a newer release.
	ErrUnsupportedVersion = errors.New("unsupported keystore version")
)

// Header is the decoded fixed-layout prefix of a keystore file. It is an
// immutable value object: every save builds a fresh one.
type Header struct {
	Version uint8
	KDF     crypto.KdfParams
	Salt    [crypto.SaltLen]byte
	Nonce   [crypto.NonceLen]byte
}

// New builds a current-version header from validated KDF parameters and
// freshly generated salt and nonce.
func New(kdf crypto.KdfParams, salt, nonce []byte) (Header, error) {
	if err := kdf.Validate(); err != nil {
		return Header{}, err
	}
	if len(salt) != crypto.SaltLen {
		return Header{}, fmt.Errorf("salt must be %d bytes, got %d", crypto.SaltLen, len(salt))
	}
	if len(nonce) != crypto.NonceLen {
		return Header{}, fmt.Errorf("nonce must be %d bytes, got %d", crypto.NonceLen, len(nonce))
	}

	h := Header{Version: CurrentVersion, KDF: kdf}
	copy(h.Salt[:], salt)
	copy(h.Nonce[:], nonce)
	return h, nil
}

// Bytes serializes the header using the encoder for its version.
func (h Header) Bytes() ([]byte, error) {
	switch h.Version {
	case VersionV1:
		return h.appendV1(nil), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
}

// Parse decodes a header from the start of data and returns it together
// with the number of bytes consumed, so the caller can slice the remainder
// as ciphertext. The version byte selects the decoder.
func Parse(data []byte) (Header, int, error) {
	if len(data) < magicLen+versionLen {
		return Header{}, 0, ErrTooShort
	}
	if !bytes.Equal(data[:magicLen], Magic) {
		return Header{}, 0, ErrBadMagic
	}

	version := data[magicLen]
	switch version {
	case VersionV1:
		return parseV1(data)
	default:
		return Header{}, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}
