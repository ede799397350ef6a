package commands

import (
	"errors"
	"fmt"

	"github.com/knestlabs/knest/internal/auth"
	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/pkg/crypto"
	"github.com/knestlabs/knest/pkg/format"
	"github.com/knestlabs/knest/pkg/keystore"
	"github.com/knestlabs/knest/pkg/storage"
)

// passwordOptions builds the auth options shared by every command.
func passwordOptions(cfg *config.Config) auth.Options {
	opts := auth.Options{NonInteractive: cfg.NonInteractive}
	if cfg.UseKeyring {
		opts.Keyring = auth.SystemKeyring()
		opts.Account = cfg.StorePath
	}
	return opts
}

// openKeystore acquires the password and opens the configured keystore,
// translating engine failures into user-facing errors.
func openKeystore(cfg *config.Config) (*keystore.Keystore, error) {
	password, err := auth.ReadPassword(passwordOptions(cfg))
	if err != nil {
		return nil, cmderrors.UserError{
			Message:    "No password provided",
			Suggestion: fmt.Sprintf("Set %s, pipe the password on stdin, or run interactively", auth.EnvVar),
			Err:        err,
		}
	}

	k, err := keystore.Open(password, storage.New(cfg.StorePath))
	if err != nil {
		return nil, describeOpenError(cfg, err)
	}
	return k, nil
}

func describeOpenError(cfg *config.Config, err error) error {
	switch {
	case errors.Is(err, keystore.ErrNotExists):
		return cmderrors.UserError{
			Message:    fmt.Sprintf("No keystore found at %s", cfg.StorePath),
			Suggestion: "Run 'knest init' to create one, or point --store at an existing keystore",
			Err:        err,
		}
	case errors.Is(err, crypto.ErrDecryptFailed):
		// Deliberately no more detail: wrong password and corrupted file
		// must stay indistinguishable.
		return cmderrors.UserError{Err: err}
	case errors.Is(err, format.ErrBadMagic):
		return cmderrors.UserError{
			Message:    fmt.Sprintf("%s is not a keystore file", cfg.StorePath),
			Suggestion: "Check the --store path",
			Err:        err,
		}
	case errors.Is(err, format.ErrUnsupportedVersion):
		return cmderrors.UserError{
			Message:    "This keystore was written by a newer version of knest",
			Suggestion: "Upgrade knest to open it",
			Err:        err,
		}
	default:
		return err
	}
}

// storeInKeyring records the password in the OS keyring when enabled.
// Called after a successful init or rekey with a copy retained before the
// engine wiped the original buffer.
func storeInKeyring(cfg *config.Config, password string) {
	if !cfg.UseKeyring || password == "" {
		return
	}
	if err := auth.SystemKeyring().Set(cfg.StorePath, password); err != nil {
		cfg.Logger.Warn().Err(err).Msg("could not store password in OS keyring")
	}
}

// kdfFromFlags merges command-line cost overrides over the configured
// defaults and validates the result.
func kdfFromFlags(cfg *config.Config, memCost, timeCost, parallelism uint32) (crypto.KdfParams, error) {
	p := cfg.KDF
	if memCost != 0 {
		p.MemCostKiB = memCost
	}
	if timeCost != 0 {
		p.TimeCost = timeCost
	}
	if parallelism != 0 {
		p.Parallelism = parallelism
	}

	if err := p.Validate(); err != nil {
		return crypto.KdfParams{}, cmderrors.UserError{
			Message:    "Invalid KDF parameters",
			Suggestion: "Memory must be at least 8 KiB per lane; time and parallelism at least 1",
			Err:        err,
		}
	}
	return p, nil
}
