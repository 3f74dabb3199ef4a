// Package polymarketapi is a minimal client for the Polymarket data API,
// covering the wallet activity endpoint used by the monitor.
package polymarketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"walletwatch/config"

	"go.uber.org/zap"
)

type Client struct {
	logger      *zap.Logger
	httpClient  *http.Client
	dataBaseURL string
}

func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		dataBaseURL: cfg.Polymarket.DataAPIURL,
	}
}

// Number is a float64 that unmarshals from either a JSON number or a quoted
// numeric string. The data API emits both encodings depending on endpoint.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse numeric string %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as a plain float64.
func (n Number) Float64() float64 { return float64(n) }

// Activity represents one item of user activity from the data API. Only
// records with Type "TRADE" are completed executions; splits, merges,
// redemptions and rewards arrive through the same endpoint.
type Activity struct {
	ProxyWallet     string `json:"proxyWallet"`
	Timestamp       int64  `json:"timestamp"`
	ConditionID     string `json:"conditionId"`
	Type            string `json:"type"` // TRADE, SPLIT, MERGE, REDEEM, REWARD, CONVERSION
	Size            Number `json:"size"`
	UsdcSize        Number `json:"usdcSize"`
	Price           Number `json:"price"`
	Side            string `json:"side"`
	TransactionHash string `json:"transactionHash"`

	// Market metadata. Title is the preferred display name; Market and
	// Asset are fallbacks on older records.
	Title   string `json:"title"`
	Market  string `json:"market"`
	Asset   string `json:"asset"`
	Slug    string `json:"slug"`
	Outcome string `json:"outcome"`
}

// GetUserActivity fetches recent activity for a wallet address, newest first.
// One request, no retry; the caller owns retry and backoff policy.
func (c *Client) GetUserActivity(
	ctx context.Context,
	wallet string,
	limit int,
) ([]Activity, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, fmt.Errorf("wallet is empty")
	}

	u, err := url.Parse(c.dataBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid dataBaseURL: %w", err)
	}
	u.Path = "/activity"

	q := u.Query()
	q.Set("user", wallet)
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	u.RawQuery = q.Encode()

	var activity []Activity
	if err := c.doGet(ctx, u.String(), &activity); err != nil {
		return nil, fmt.Errorf("get user activity: %w", err)
	}

	return activity, nil
}

// doGet is a helper that performs a GET request and decodes the JSON response.
func (c *Client) doGet(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}
