// Package config handles loading application configuration from environment
// variables, with .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is constructed once in main
// and passed by pointer; nothing reads the environment after Load returns.
type Config struct {
	// Wallet being monitored. Required, stored lowercased.
	Wallet string

	// Poll loop
	PollInterval      time.Duration
	MaxBackoff        time.Duration
	InitialFetchLimit int
	PollFetchLimit    int

	// Telegram
	Telegram TelegramConfig

	// Discord
	Discord DiscordConfig

	// Polymarket API
	Polymarket PolymarketConfig

	// Live trade feed (WebSocket) in addition to polling
	UseWebSocket bool

	// Logging
	Log LogConfig
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	BotToken string
	ChatIDs  []string // ordered recipient list
}

// Configured reports whether Telegram delivery can be used. Both the token
// and at least one chat ID are required.
func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && len(t.ChatIDs) > 0
}

// DiscordConfig holds Discord bot configuration.
type DiscordConfig struct {
	BotToken  string
	ChannelID string
}

// Configured reports whether Discord delivery can be used.
func (d DiscordConfig) Configured() bool {
	return d.BotToken != "" && d.ChannelID != ""
}

// PolymarketConfig holds Polymarket API endpoints.
type PolymarketConfig struct {
	DataAPIURL string
	LiveWSURL  string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level     string
	TradesLog string // file sink for the per-trade log, empty disables it
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is picked up first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Wallet: strings.ToLower(envString("POLYMARKET_WALLET", "")),

		PollInterval:      envSeconds("POLL_INTERVAL", 5*time.Second),
		MaxBackoff:        envSeconds("MAX_BACKOFF_SECONDS", 60*time.Second),
		InitialFetchLimit: envInt("INITIAL_FETCH_LIMIT", 50),
		PollFetchLimit:    envInt("POLL_FETCH_LIMIT", 20),

		Telegram: TelegramConfig{
			BotToken: envString("TELEGRAM_BOT_TOKEN", ""),
			ChatIDs:  envStringSlice("TELEGRAM_CHAT_IDS"),
		},

		Discord: DiscordConfig{
			BotToken:  envString("DISCORD_BOT_TOKEN", ""),
			ChannelID: envString("DISCORD_CHANNEL_ID", ""),
		},

		Polymarket: PolymarketConfig{
			DataAPIURL: envString("POLYMARKET_DATA_API_URL", "https://data-api.polymarket.com"),
			LiveWSURL:  envString("POLYMARKET_LIVE_WS_URL", "wss://ws-live-data.polymarket.com"),
		},

		UseWebSocket: envBool("USE_WEBSOCKET", false),

		Log: LogConfig{
			Level:     envString("LOG_LEVEL", "info"),
			TradesLog: envString("TRADES_LOG_FILE", "trades.log"),
		},
	}
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Wallet == "" {
		return fmt.Errorf("POLYMARKET_WALLET is required: set the wallet address in .env or the environment")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.MaxBackoff < c.PollInterval {
		return fmt.Errorf("MAX_BACKOFF_SECONDS must be at least the poll interval")
	}
	return nil
}

// MaskedTelegramToken returns the bot token with most characters hidden for logging.
func (c *Config) MaskedTelegramToken() string {
	return maskSecret(c.Telegram.BotToken)
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// envSeconds parses an integer number of seconds.
func envSeconds(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func envStringSlice(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
