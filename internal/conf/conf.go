package conf

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultFeedURL        = "https://growagarden.gg/api/stock"
	defaultFeedTimeoutSec = 10
	defaultDBPath         = "./stock-notifier.db"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Feed configuration
	Feed FeedConfig

	// Store configuration
	Store StoreConfig

	// Status endpoint configuration
	Status StatusConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	Token string
	// OperatorChatID receives cycle error reports; 0 degrades error
	// reporting to local logging only.
	OperatorChatID int64
}

// FeedConfig contains stock feed configuration
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// StoreConfig contains persistence configuration
type StoreConfig struct {
	DBPath string
}

// StatusConfig contains status endpoint configuration
type StatusConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	operatorChat := int64(0)
	if val := os.Getenv("TELEGRAM_ERROR_CHAT_ID"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			operatorChat = parsed
		}
	}

	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		feedURL = defaultFeedURL
	}

	feedTimeoutSec := defaultFeedTimeoutSec
	if val := os.Getenv("FEED_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			feedTimeoutSec = parsed
		}
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	return &Config{
		Telegram: TelegramConfig{
			Token:          os.Getenv("TELEGRAM_BOT_TOKEN"),
			OperatorChatID: operatorChat,
		},
		Feed: FeedConfig{
			URL:     feedURL,
			Timeout: time.Duration(feedTimeoutSec) * time.Second,
		},
		Store: StoreConfig{
			DBPath: dbPath,
		},
		Status: StatusConfig{
			Addr: os.Getenv("STATUS_ADDR"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
