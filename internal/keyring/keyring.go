package keyring

import (
	"errors"
	"fmt"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/zalando/go-keyring"
)

// Accounts stored under the reviewnag keyring service.
const (
	AccountDatabase  = constants.DefaultKeyringUser
	AccountDueSource = "due-source-token"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the secret stored for account.
func Get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account, replacing any previous value.
func Set(account, secret string) error {
	if secret == "" {
		return fmt.Errorf("secret for %s cannot be empty", account)
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", account, err)
	}
	return nil
}

// Delete removes the secret stored for account.
func Delete(account string) error {
	err := keyring.Delete(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", account, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(AccountDatabase)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	return Set(AccountDatabase, connStr)
}

// DeleteConnectionString removes the PostgreSQL connection string.
func DeleteConnectionString() error {
	return Delete(AccountDatabase)
}

// GetDueSourceToken retrieves the bearer token sent to the due-items endpoint.
// A missing token is not an error; the request is simply sent without one.
func GetDueSourceToken() (string, error) {
	token, err := Get(AccountDueSource)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
