// Package keyrings stores the machine access token in the OS keyring
// (Keychain on macOS, Credential Manager on Windows, Secret Service on
// Linux) so it does not have to live in shell history or dotfiles.
package keyrings

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "bwsctl"
	account = "access-token"
)

// ErrNoToken indicates no token has been stored yet.
var ErrNoToken = errors.New("no access token stored in keyring")

// SetToken stores the access token, replacing any previous one.
func SetToken(token string) error {
	if err := keyring.Set(service, account, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// GetToken returns the stored access token.
func GetToken() (string, error) {
	token, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored access token. Deleting a missing token is
// not an error.
func DeleteToken() error {
	if err := keyring.Delete(service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to remove token from keyring: %w", err)
	}
	return nil
}
