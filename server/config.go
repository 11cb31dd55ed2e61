// Package server assembles the ClariPy HTTP API: request routing, auth
// middleware, and persistence wiring, on top of the service layer in
// server/tunas.
package server

import (
	"fmt"
	"os"
	"time"

	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/dao/sqlite"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// Config is a configuration for a Server. It contains all parameters needed
// to configure the operation of claripyd.
type Config struct {
	// TokenSecret is the secret used for signing JWTs. If not provided, a
	// default (insecure) key is used.
	TokenSecret []byte

	// DataDir is the path to a directory the server stores its sqlite
	// databases in: claripy.db for user accounts and history.db for
	// translation history.
	DataDir string

	// UnauthDelayMillis is the amount of additional time to wait (in
	// milliseconds) before sending a response that indicates the client was
	// unauthorized or unauthenticated, to deprioritize such requests. If not
	// set it defaults to 1 second. Set to a negative number to disable.
	UnauthDelayMillis int
}

// UnauthDelay returns the configured delay as a time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DataDir == "" {
		newCFG.DataDir = "."
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set.
// Call Validate on the return value of FillDefaults if defaults are
// intended to be used.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data dir: must not be empty")
	}

	return nil
}

// connect creates the data dir if needed and opens both the user-account
// store and the translation-history store within it.
func (cfg Config) connect() (dao.Store, history.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0770); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	users, err := sqlite.NewDatastore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize user store: %w", err)
	}

	hist, err := history.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize history store: %w", err)
	}

	return users, hist, nil
}
