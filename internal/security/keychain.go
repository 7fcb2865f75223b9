package security

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeychainService is the service name used for storing the OAuth token
	// in the keychain
	KeychainService = "twitch-irc"
)

// Keychain provides secure OAuth token storage using the OS keychain
type Keychain struct{}

// NewKeychain creates a new keychain instance
func NewKeychain() *Keychain {
	return &Keychain{}
}

// StoreToken stores the OAuth token for a nick in the OS keychain
func (k *Keychain) StoreToken(nick string, token string) error {
	if token == "" {
		// Empty token, delete instead
		return k.DeleteToken(nick)
	}
	err := keyring.Set(KeychainService, nick, token)
	if err != nil {
		return fmt.Errorf("failed to store token in keychain: %w", err)
	}
	return nil
}

// GetToken retrieves the OAuth token for a nick from the OS keychain
func (k *Keychain) GetToken(nick string) (string, error) {
	token, err := keyring.Get(KeychainService, nick)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil // Not found is not an error, just return empty
		}
		return "", fmt.Errorf("failed to get token from keychain: %w", err)
	}
	return token, nil
}

// DeleteToken removes the OAuth token for a nick from the OS keychain
func (k *Keychain) DeleteToken(nick string) error {
	err := keyring.Delete(KeychainService, nick)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil // Not found is not an error
		}
		return fmt.Errorf("failed to delete token from keychain: %w", err)
	}
	return nil
}
