package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the JSON file layout. The bot token and the
// encryption passphrase are intentionally absent so that secrets cannot end
// up in config files checked into dotfile repositories.
type StructuredJSONConfig struct {
	Bot struct {
		AdminID     int64    `json:"admin_id"`
		PollTimeout Duration `json:"poll_timeout"`
	} `json:"bot,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`

	Crypto struct {
		SaltFile string `json:"salt_file"`
	} `json:"crypto,omitempty"`

	Engine struct {
		StateTTL Duration `json:"state_ttl"`
	} `json:"engine,omitempty"`
}

func parseJSON(jsonFilePath string) (*BotConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &BotConfig{
		Bot: Bot{
			AdminID:     jsonCfg.Bot.AdminID,
			PollTimeout: time.Duration(jsonCfg.Bot.PollTimeout),
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
		Crypto: Crypto{
			SaltFile: jsonCfg.Crypto.SaltFile,
		},
		Engine: Engine{
			StateTTL: time.Duration(jsonCfg.Engine.StateTTL),
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration")
	}
}
