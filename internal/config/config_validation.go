// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The CryptoLocker Authors

package config

import "time"

const (
	defaultPollTimeout = 30 * time.Second
	defaultStateTTL    = 5 * time.Minute
)

// setDefaults fills optional settings left unset by every source.
func (cfg *BotConfig) setDefaults() {
	if cfg.Bot.PollTimeout <= 0 {
		cfg.Bot.PollTimeout = defaultPollTimeout
	}
	if cfg.Engine.StateTTL <= 0 {
		cfg.Engine.StateTTL = defaultStateTTL
	}
}

// validate checks that the final merged [BotConfig] satisfies all startup
// invariants. An -init-salt run only needs the salt file path.
func (cfg *BotConfig) validate() error {
	if cfg.Crypto.SaltFile == "" {
		return ErrInvalidCryptoConfigs
	}
	if cfg.InitSalt {
		return nil
	}

	if cfg.Bot.Token == "" || cfg.Bot.AdminID <= 0 {
		return ErrInvalidBotConfigs
	}
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Crypto.Passphrase == "" {
		return ErrInvalidCryptoConfigs
	}
	if cfg.Bot.PollTimeout < time.Second {
		return ErrInvalidBotConfigs
	}

	return nil
}
