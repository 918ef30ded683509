package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Thomashsu19/stock-app/internal/logger"
)

// ErrNoPrice means the quote source has no current price for the symbol.
var ErrNoPrice = errors.New("no price for symbol")

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches spot quotes from finnhub.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		logger:     log,
	}
}

// finnhub /quote payload: c=current, h=high, l=low, o=open, pc=prev close.
type quoteResponse struct {
	Current *float64 `json:"c"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finnhub returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var q quoteResponse
	if err := json.Unmarshal(body, &q); err != nil {
		return 0, fmt.Errorf("parse quote response: %w", err)
	}

	if q.Current == nil {
		return 0, ErrNoPrice
	}

	c.logger.Debug("quote fetched", "symbol", symbol, "price", *q.Current)
	return *q.Current, nil
}
