package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

// FeedClient fetches the daily exchange-rate bulletin from a CBR-style feed.
// Every rate is the RUB price of one unit of the quoted currency. The client
// does not cache and does not retry: a failed fetch fails the caller.
type FeedClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFeedClient(baseURL string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type rateEntry struct {
	Value decimal.Decimal `json:"Value"`
}

type dailyBulletin struct {
	Valute map[string]rateEntry `json:"Valute"`
}

// Rate returns the RUB price of one unit of the given currency.
func (c *FeedClient) Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	bulletin, err := c.fetch(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Rate: %w", err)
	}

	entry, ok := bulletin.Valute[string(currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("Rate: %s: %w", currency, domain.ErrUnknownCurrency)
	}
	return entry.Value, nil
}

// Knows reports whether the feed quotes the given currency.
func (c *FeedClient) Knows(ctx context.Context, currency domain.Currency) (bool, error) {
	bulletin, err := c.fetch(ctx)
	if err != nil {
		return false, fmt.Errorf("Knows: %w", err)
	}

	_, ok := bulletin.Valute[string(currency)]
	return ok, nil
}

func (c *FeedClient) fetch(ctx context.Context) (*dailyBulletin, error) {
	url := c.baseURL + "/daily_json.js"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch: status %d: %w", resp.StatusCode, domain.ErrRateSource)
	}

	var bulletin dailyBulletin
	if err := json.NewDecoder(resp.Body).Decode(&bulletin); err != nil {
		return nil, fmt.Errorf("fetch: decode: %w", err)
	}
	if len(bulletin.Valute) == 0 {
		return nil, fmt.Errorf("fetch: empty bulletin: %w", domain.ErrRateSource)
	}

	return &bulletin, nil
}
