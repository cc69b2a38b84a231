package config

import "errors"

// Validation errors returned by [BotConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidBotConfigs indicates missing Telegram settings (for
	// example, an empty token or a non-positive admin id).
	ErrInvalidBotConfigs = errors.New("invalid bot configuration")
	// ErrInvalidStorageConfigs indicates missing storage settings.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCryptoConfigs indicates missing key-derivation settings
	// (salt file path or passphrase).
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
)
