package crypto

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidParams is returned when KDF parameters fail validation.
	ErrInvalidParams = errors.New("invalid kdf parameters")
	// ErrDerivationFailed is returned when the Argon2 primitive rejects an
	// otherwise valid-looking configuration (e.g. a bad salt length).
	ErrDerivationFailed = errors.New("key derivation failed")
)

// KdfParams holds the Argon2id cost parameters stored alongside every
// keystore. The triple is validated at construction and immutable after
// that; changing costs on an existing keystore goes through a rekey.
type KdfParams struct {
	MemCostKiB  uint32
	TimeCost    uint32
	Parallelism uint32
}

// DefaultKdfParams returns the cost parameters used for new keystores:
// 64 MiB of memory, 3 iterations, a single lane.
func DefaultKdfParams() KdfParams {
	return KdfParams{
		MemCostKiB:  64 * 1024,
		TimeCost:    3,
		Parallelism: 1,
	}
}

// NewKdfParams builds a validated KdfParams from user-supplied costs.
func NewKdfParams(memCostKiB, timeCost, parallelism uint32) (KdfParams, error) {
	p := KdfParams{
		MemCostKiB:  memCostKiB,
		TimeCost:    timeCost,
		Parallelism: parallelism,
	}
	if err := p.Validate(); err != nil {
		return KdfParams{}, err
	}
	return p, nil
}

// Validate checks the Argon2id invariants: memory at least 8 KiB, at least
// one iteration, at least one lane, and at least 8 KiB of memory per lane.
func (p KdfParams) Validate() error {
	if p.MemCostKiB < 8 {
		return fmt.Errorf("%w: memory cost %d KiB is below the 8 KiB minimum", ErrInvalidParams, p.MemCostKiB)
	}
	if p.TimeCost < 1 {
		return fmt.Errorf("%w: time cost must be at least 1", ErrInvalidParams)
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidParams)
	}
	// Compare by division: 8*Parallelism can wrap uint32 for huge lane
	// counts and the check must not pass on the wrapped product.
	if p.MemCostKiB/8 < p.Parallelism {
		return fmt.Errorf("%w: memory cost %d KiB is below 8 KiB per lane (%d lanes)",
			ErrInvalidParams, p.MemCostKiB, p.Parallelism)
	}
	return nil
}

// DeriveKey derives a 256-bit encryption key from password and salt using
// Argon2id with the given cost parameters. The derivation is deterministic:
// identical inputs always produce the identical key. The CPU and memory
// spent here are proportional to the configured costs and are the point of
// the exercise; results are never cached.
//
// The caller owns the returned slice and should wipe it once the key has
// been moved into protected memory.
func DeriveKey(password, salt []byte, p KdfParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrDerivationFailed, SaltLen, len(salt))
	}
	if p.Parallelism > math.MaxUint8 {
		return nil, fmt.Errorf("%w: parallelism %d exceeds argon2 lane limit", ErrDerivationFailed, p.Parallelism)
	}

	key := argon2.IDKey(password, salt, p.TimeCost, p.MemCostKiB, uint8(p.Parallelism), KeyLen)
	return key, nil
}
