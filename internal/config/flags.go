package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN (postgres:// URL or SQLite file path)
//	-salt key-derivation salt file path
//	-admin admin Telegram user id
//	-poll-timeout getUpdates long-poll window (e.g. "30s")
//	-state-ttl conversation flow timeout (e.g. "5m")
//	-c/-config json file path with configs
//	-init-salt create the salt file and exit
//
// The bot token and the encryption passphrase are deliberately not flags:
// command lines leak through process listings and shell history.
func ParseFlags() *BotConfig {
	var databaseDSN string
	var saltFile string
	var adminID int64
	var pollTimeout time.Duration
	var stateTTL time.Duration
	var jsonConfigPath string
	var initSalt bool

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&saltFile, "salt", "", "Key-derivation salt file path")
	flag.Int64Var(&adminID, "admin", 0, "Admin Telegram user id")
	flag.DurationVar(&pollTimeout, "poll-timeout", 0, "Long-poll window (e.g. 30s)")
	flag.DurationVar(&stateTTL, "state-ttl", 0, "Conversation flow timeout (e.g. 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.BoolVar(&initSalt, "init-salt", false, "Create the salt file and exit")

	flag.Parse()

	return &BotConfig{
		Bot: Bot{
			AdminID:     adminID,
			PollTimeout: pollTimeout,
		},
		Storage: Storage{
			DSN: databaseDSN,
		},
		Crypto: Crypto{
			SaltFile: saltFile,
		},
		Engine: Engine{
			StateTTL: stateTTL,
		},
		JSONFilePath: jsonConfigPath,
		InitSalt:     initSalt,
	}
}
