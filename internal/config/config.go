// Package config resolves the runtime configuration of the CLI: where the
// keystore file lives, which KDF costs to use for init and rekey, and
// whether the OS keyring participates in password acquisition.
//
// Configuration comes from an optional YAML file, validated against an
// embedded JSON schema before use. Precedence for the store path:
// --store flag, KNEST_STORE environment variable, config file, XDG default.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/logging"
	"github.com/knestlabs/knest/pkg/crypto"
)

// Config holds the resolved runtime configuration shared by all commands.
type Config struct {
	// Path is the config file location; the file is optional.
	Path string
	// StorePath is where the keystore file lives. Set by flag before Load,
	// otherwise resolved by Load.
	StorePath string
	// UseKeyring enables the OS keyring as a password source and sink.
	UseKeyring bool
	// KDF holds the cost parameters used by init and rekey.
	KDF crypto.KdfParams

	Logger         *logging.Logger
	NonInteractive bool
}

// fileConfig mirrors the YAML document.
type fileConfig struct {
	Version int    `yaml:"version"`
	Store   string `yaml:"store,omitempty"`
	Keyring bool   `yaml:"keyring,omitempty"`
	KDF     struct {
		MemCostKiB  uint32 `yaml:"mem_cost_kib,omitempty"`
		TimeCost    uint32 `yaml:"time_cost,omitempty"`
		Parallelism uint32 `yaml:"parallelism,omitempty"`
	} `yaml:"kdf,omitempty"`
}

// Load reads and applies the config file, then resolves the store path and
// KDF defaults. A missing file is not an error; everything has a default.
func (c *Config) Load() error {
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	c.KDF = crypto.DefaultKdfParams()

	path := c.Path
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file; flag/env/defaults only.
	case err != nil:
		return fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := c.apply(path, data); err != nil {
			return err
		}
	}

	if c.StorePath == "" {
		if env := os.Getenv("KNEST_STORE"); env != "" {
			c.StorePath = env
		} else {
			c.StorePath = DefaultStorePath()
		}
	}
	return nil
}

func (c *Config) apply(path string, data []byte) error {
	if err := validateSchema(data); err != nil {
		return cmderrors.UserError{
			Message:    fmt.Sprintf("Invalid config file %s", path),
			Suggestion: "Fix the listed fields or delete the file to use defaults",
			Err:        err,
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.StorePath == "" && fc.Store != "" {
		c.StorePath = expandHome(fc.Store)
	}
	c.UseKeyring = c.UseKeyring || fc.Keyring

	// Partial KDF overrides keep the defaults for unset fields.
	if fc.KDF.MemCostKiB != 0 {
		c.KDF.MemCostKiB = fc.KDF.MemCostKiB
	}
	if fc.KDF.TimeCost != 0 {
		c.KDF.TimeCost = fc.KDF.TimeCost
	}
	if fc.KDF.Parallelism != 0 {
		c.KDF.Parallelism = fc.KDF.Parallelism
	}
	if err := c.KDF.Validate(); err != nil {
		return cmderrors.UserError{
			Message:    fmt.Sprintf("Invalid kdf section in %s", path),
			Suggestion: "Memory must be at least 8 KiB per lane; time and parallelism at least 1",
			Err:        err,
		}
	}
	return nil
}

// validateSchema checks the YAML document against the embedded JSON schema.
func validateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert config for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}
	return nil
}

// DefaultConfigPath returns the platform config file location,
// $XDG_CONFIG_HOME/knest/knest.yaml with the usual fallbacks.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "knest", "knest.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "knest", "knest.yaml")
	}
	return filepath.Join(os.TempDir(), "knest", "knest.yaml")
}

// DefaultStorePath returns the platform data location for the keystore,
// $XDG_DATA_HOME/knest/knest.db with the usual fallbacks.
func DefaultStorePath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "knest", "knest.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "knest", "knest.db")
	}
	return filepath.Join(os.TempDir(), "knest", "knest.db")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~"+string(os.PathSeparator)) && path != "~" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
