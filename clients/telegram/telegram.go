// Package telegram delivers trade alerts to one or more Telegram chats via
// the Bot API.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"walletwatch/clients/notifier"
	"walletwatch/config"

	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.telegram.org"

// Client sends alerts to a list of Telegram chats.
// Implements notifier.Notifier.
type Client struct {
	logger   *zap.Logger
	botToken string
	chatIDs  []string
	apiBase  string
	client   *http.Client
}

// NewClient creates a Telegram notifier, or nil when the bot token or the
// recipient list is missing. The nil return fixes the caller's fallback
// decision for the process lifetime.
func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Telegram.Configured() {
		logger.Warn("telegram not configured, alerts will use local display",
			zap.Bool("tokenSet", cfg.Telegram.BotToken != ""),
			zap.Int("chatIDs", len(cfg.Telegram.ChatIDs)),
		)
		return nil
	}

	logger.Info("telegram bot initialized",
		zap.Int("recipients", len(cfg.Telegram.ChatIDs)),
	)

	return &Client{
		logger:   logger,
		botToken: cfg.Telegram.BotToken,
		chatIDs:  cfg.Telegram.ChatIDs,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendTradeAlert renders the alert once and attempts delivery to every
// configured chat, in list order. A failed recipient never blocks the rest.
// Implements notifier.Notifier.
func (c *Client) SendTradeAlert(alert notifier.TradeAlert) {
	message := BuildAlertMessage(alert)

	for _, chatID := range c.chatIDs {
		if err := c.sendMessage(chatID, message); err != nil {
			c.logger.Error("failed to send telegram message",
				zap.String("chatID", chatID),
				zap.Error(err),
			)
			continue
		}
		c.logger.Info("sent telegram trade alert",
			zap.String("chatID", chatID),
			zap.String("market", alert.MarketTitle),
		)
	}
}

// BuildAlertMessage renders the channel-markup variant of a trade alert.
// Free-text fields are escaped; numeric values are identical to the terminal
// rendering of the same alert.
func BuildAlertMessage(alert notifier.TradeAlert) string {
	direction := "📉 SELL"
	if alert.IsBuy() {
		direction = "📈 BUY"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n\n", direction))
	sb.WriteString(fmt.Sprintf("*Market:* %s\n", EscapeMarkdown(alert.MarketTitle)))
	if alert.Outcome != "" {
		sb.WriteString(fmt.Sprintf("*Outcome:* %s\n", EscapeMarkdown(alert.Outcome)))
	}
	sb.WriteString(fmt.Sprintf("*Shares:* %s\n", alert.FormattedShares()))
	sb.WriteString(fmt.Sprintf("*Price:* %s\n", alert.FormattedPrice()))
	sb.WriteString(fmt.Sprintf("*Total:* %s\n", alert.FormattedTotal()))
	sb.WriteString(fmt.Sprintf("\n_%s_", alert.FormattedTime()))

	return sb.String()
}

// markdownEscaper prefixes every reserved Telegram markup character with a
// backslash.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdown escapes special characters for Telegram Markdown in
// free-text fields.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// sendResponse is the Bot API envelope; a 2xx status with ok=false is still
// a delivery failure.
type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) sendMessage(chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)

	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := c.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// Close cleans up resources. Implements notifier.Notifier.
func (c *Client) Close() error {
	return nil
}
