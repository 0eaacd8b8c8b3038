// SPDX-License-Identifier: MIT

// Package config loads bot configuration with precedence ENV > file > defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration.
type Config struct {
	// Telegram
	Token       string
	AdminIDs    []int64
	PollTimeout time.Duration

	// Webhook mode. Polling is used when WebhookURL is empty.
	WebhookURL    string
	WebhookPath   string
	WebhookSecret string

	// Storage
	DBPath string

	// Conversation state backend. Redis wins over Badger; memory otherwise.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StateDir      string
	StateTTL      time.Duration

	// Ops HTTP server (health, readiness, metrics, webhook)
	OpsListen string

	// Rate limiting (updates per chat)
	ChatRate        float64
	ChatBurst       int
	GlobalRate      float64
	GlobalBurst     int
	CleanupInterval time.Duration

	// Journey planner
	MaxJourneys int

	// Logging
	LogLevel string
}

// FileConfig mirrors the optional YAML config file. Every field is a pointer
// so absent keys do not shadow environment values.
type FileConfig struct {
	Token       *string  `yaml:"token"`
	AdminIDs    []int64  `yaml:"adminIds"`
	WebhookURL  *string  `yaml:"webhookUrl"`
	WebhookPath *string  `yaml:"webhookPath"`
	DBPath      *string  `yaml:"dbPath"`
	RedisAddr   *string  `yaml:"redisAddr"`
	StateDir    *string  `yaml:"stateDir"`
	OpsListen   *string  `yaml:"opsListen"`
	ChatRate    *float64 `yaml:"chatRate"`
	ChatBurst   *int     `yaml:"chatBurst"`
	LogLevel    *string  `yaml:"logLevel"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		PollTimeout:     30 * time.Second,
		WebhookPath:     "/webhook",
		DBPath:          "data/polyansky.db",
		StateTTL:        30 * time.Minute,
		OpsListen:       ":8090",
		ChatRate:        1,
		ChatBurst:       5,
		GlobalRate:      30,
		GlobalBurst:     60,
		CleanupInterval: 5 * time.Minute,
		MaxJourneys:     3,
		LogLevel:        "info",
	}
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment, in that order of increasing precedence.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		mergeFile(&cfg, fc)
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &fc, nil
}

func mergeFile(cfg *Config, fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Token != nil {
		cfg.Token = *fc.Token
	}
	if fc.AdminIDs != nil {
		cfg.AdminIDs = fc.AdminIDs
	}
	if fc.WebhookURL != nil {
		cfg.WebhookURL = *fc.WebhookURL
	}
	if fc.WebhookPath != nil {
		cfg.WebhookPath = *fc.WebhookPath
	}
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.RedisAddr != nil {
		cfg.RedisAddr = *fc.RedisAddr
	}
	if fc.StateDir != nil {
		cfg.StateDir = *fc.StateDir
	}
	if fc.OpsListen != nil {
		cfg.OpsListen = *fc.OpsListen
	}
	if fc.ChatRate != nil {
		cfg.ChatRate = *fc.ChatRate
	}
	if fc.ChatBurst != nil {
		cfg.ChatBurst = *fc.ChatBurst
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

func mergeEnv(cfg *Config) {
	cfg.Token = ParseString("POLYANSKY_TOKEN", cfg.Token)
	cfg.AdminIDs = ParseInt64List("POLYANSKY_ADMIN_IDS", cfg.AdminIDs)
	cfg.PollTimeout = ParseDuration("POLYANSKY_POLL_TIMEOUT", cfg.PollTimeout)
	cfg.WebhookURL = ParseString("POLYANSKY_WEBHOOK_URL", cfg.WebhookURL)
	cfg.WebhookPath = ParseString("POLYANSKY_WEBHOOK_PATH", cfg.WebhookPath)
	cfg.WebhookSecret = ParseString("POLYANSKY_WEBHOOK_SECRET", cfg.WebhookSecret)
	cfg.DBPath = ParseString("POLYANSKY_DB_PATH", cfg.DBPath)
	cfg.RedisAddr = ParseString("POLYANSKY_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("POLYANSKY_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = ParseInt("POLYANSKY_REDIS_DB", cfg.RedisDB)
	cfg.StateDir = ParseString("POLYANSKY_STATE_DIR", cfg.StateDir)
	cfg.StateTTL = ParseDuration("POLYANSKY_STATE_TTL", cfg.StateTTL)
	cfg.OpsListen = ParseString("POLYANSKY_OPS_LISTEN", cfg.OpsListen)
	cfg.ChatRate = float64(ParseInt("POLYANSKY_CHAT_RATE", int(cfg.ChatRate)))
	cfg.ChatBurst = ParseInt("POLYANSKY_CHAT_BURST", cfg.ChatBurst)
	cfg.GlobalRate = float64(ParseInt("POLYANSKY_GLOBAL_RATE", int(cfg.GlobalRate)))
	cfg.GlobalBurst = ParseInt("POLYANSKY_GLOBAL_BURST", cfg.GlobalBurst)
	cfg.MaxJourneys = ParseInt("POLYANSKY_MAX_JOURNEYS", cfg.MaxJourneys)
	cfg.LogLevel = ParseString("POLYANSKY_LOG_LEVEL", cfg.LogLevel)
}

// Validate checks the configuration for fatal inconsistencies.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("config: POLYANSKY_TOKEN is required")
	}
	for _, id := range c.AdminIDs {
		if id <= 0 {
			return fmt.Errorf("config: invalid admin id %d", id)
		}
	}
	if c.WebhookURL != "" {
		u, err := url.Parse(c.WebhookURL)
		if err != nil {
			return fmt.Errorf("config: invalid webhook URL: %w", err)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("config: webhook URL must be https, got %q", u.Scheme)
		}
		if !strings.HasPrefix(c.WebhookPath, "/") {
			return fmt.Errorf("config: webhook path must start with /, got %q", c.WebhookPath)
		}
	}
	if c.MaxJourneys < 1 {
		return fmt.Errorf("config: max journeys must be positive, got %d", c.MaxJourneys)
	}
	if c.ChatRate <= 0 || c.ChatBurst < 1 {
		return fmt.Errorf("config: invalid chat rate limit %v/%d", c.ChatRate, c.ChatBurst)
	}
	return nil
}

// IsAdmin reports whether the given Telegram user is in the admin list.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// UseWebhook reports whether webhook mode is configured.
func (c Config) UseWebhook() bool {
	return c.WebhookURL != ""
}
