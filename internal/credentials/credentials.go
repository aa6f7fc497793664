// Package credentials stores the hosted data store key in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

const (
	Service = "robomovie"
	EnvKey  = "ROBOMOVIE_STORAGE_KEY"
)

var ErrNoKey = errors.New("no storage key configured")

// SystemUser is the keyring account name.
func SystemUser() string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows fallback
	}
	if username == "" {
		username = "anon"
	}
	return username
}

// Key returns the stored key, falling back to $ROBOMOVIE_STORAGE_KEY when
// the keyring has none.
func Key() (string, error) {
	key, err := keyring.Get(Service, SystemUser())
	switch {
	case err == nil && key != "":
		logger.Debug("storage key read from keyring")
		return key, nil
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Warn("keyring lookup failed", zap.Error(err))
	}
	if env := strings.TrimSpace(os.Getenv(EnvKey)); env != "" {
		logger.Debug("storage key read from environment")
		return env, nil
	}
	return "", ErrNoKey
}

func Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrNoKey
	}
	if err := keyring.Set(Service, SystemUser(), key); err != nil {
		return fmt.Errorf("failed to save storage key: %w", err)
	}
	return nil
}

func Delete() error {
	err := keyring.Delete(Service, SystemUser())
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete storage key: %w", err)
	}
	return nil
}
