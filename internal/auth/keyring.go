package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// service namespaces knest entries in the OS credential store.
const service = "knest"

// ErrKeyringNotFound is returned when no entry exists for the account.
var ErrKeyringNotFound = errors.New("no keyring entry")

// Keyring abstracts the OS credential store so tests can substitute it.
type Keyring interface {
	Get(account string) (string, error)
	Set(account, password string) error
	Delete(account string) error
}

// systemKeyring talks to the platform credential store: Secret Service on
// Linux, Keychain on macOS, Credential Manager on Windows.
type systemKeyring struct{}

// SystemKeyring returns the platform credential store.
func SystemKeyring() Keyring {
	return systemKeyring{}
}

func (systemKeyring) Get(account string) (string, error) {
	pw, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyringNotFound
		}
		return "", err
	}
	return pw, nil
}

func (systemKeyring) Set(account, password string) error {
	return keyring.Set(service, account, password)
}

func (systemKeyring) Delete(account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyringNotFound
	}
	return err
}
