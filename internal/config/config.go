// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The CryptoLocker Authors

package config

import "time"

// BotConfig is the top-level configuration container for the cryptolocker
// bot. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file, in that order of
// precedence.
type BotConfig struct {
	// Bot holds the Telegram connection settings.
	Bot Bot

	// Storage holds the database connection settings.
	Storage Storage

	// Crypto holds the key-derivation inputs. The passphrase is accepted
	// from the environment only; it has no flag and no JSON field.
	Crypto Crypto

	// Engine holds conversation state machine settings.
	Engine Engine

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged under the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"CONFIG"`

	// InitSalt asks the binary to create the key-derivation salt file and
	// exit. Set via the -init-salt flag only.
	InitSalt bool `env:"-"`
}

// Bot holds Telegram gateway settings.
type Bot struct {
	// Token is the bot token issued by BotFather. Required.
	// Env: BOT_TOKEN
	Token string `env:"BOT_TOKEN"`

	// AdminID is the Telegram user id of the single allowed operator.
	// Required.
	// Env: ADMIN_TELEGRAM_ID
	AdminID int64 `env:"ADMIN_TELEGRAM_ID"`

	// PollTimeout is the getUpdates long-poll window. Defaults to 30s.
	// Env: POLL_TIMEOUT
	PollTimeout time.Duration `env:"POLL_TIMEOUT"`
}

// Storage holds database settings.
type Storage struct {
	// DSN selects the backend: a postgres:// URL for PostgreSQL, anything
	// else is a SQLite file path. Required.
	// Env: DATABASE_DSN
	DSN string `env:"DATABASE_DSN"`
}

// Crypto holds key-derivation settings.
type Crypto struct {
	// SaltFile is the path of the binary salt file used for key
	// derivation. The file is created once via -init-salt and must never
	// change afterwards. Required.
	// Env: KEY_DERIVATION_SALT_FILE
	SaltFile string `env:"KEY_DERIVATION_SALT_FILE"`

	// Passphrase is the master passphrase the vault key is derived from.
	// Environment only, never a flag or JSON field, never logged.
	// Env: ENCRYPTION_PASSPHRASE
	Passphrase string `env:"ENCRYPTION_PASSPHRASE"`
}

// Engine holds conversation settings.
type Engine struct {
	// StateTTL is how long an unfinished flow survives without input
	// before its partial data is discarded. Defaults to 5m.
	// Env: STATE_TTL
	StateTTL time.Duration `env:"STATE_TTL"`
}

// GetBotConfig loads, merges and validates the full configuration.
func GetBotConfig() (*BotConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
