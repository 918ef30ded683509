package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Line     LineConfig     `yaml:"line"`
	Finnhub  FinnhubConfig  `yaml:"finnhub"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Storage  StorageConfig  `yaml:"storage"`
	Telegram TelegramConfig `yaml:"telegram"`
	Web      WebConfig      `yaml:"web"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LineConfig struct {
	ChannelAccessToken string `yaml:"channel_access_token"`
	ChannelSecret      string `yaml:"channel_secret"`
}

type FinnhubConfig struct {
	APIKey string `yaml:"api_key"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	LedgerSheet     string `yaml:"ledger_sheet"`
	SummarySheet    string `yaml:"summary_sheet"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // sheets or sqlite
	DBPath  string `yaml:"db_path"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the optional yaml config file at path, then applies environment
// overrides. Environment variables win over file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		cfg.Line.ChannelSecret = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Web.Port = port
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sheets"
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "data/stock-app.db"
	}
	if cfg.Sheets.LedgerSheet == "" {
		cfg.Sheets.LedgerSheet = "ledger"
	}
	if cfg.Sheets.SummarySheet == "" {
		cfg.Sheets.SummarySheet = "summary"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 5000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Line.ChannelAccessToken == "" {
		return fmt.Errorf("line.channel_access_token is required")
	}
	if c.Line.ChannelSecret == "" {
		return fmt.Errorf("line.channel_secret is required")
	}
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	switch c.Storage.Backend {
	case "sheets":
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets.spreadsheet_id is required")
		}
		if c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("sheets.credentials_file is required")
		}
	case "sqlite":
		// db_path has a default
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}
