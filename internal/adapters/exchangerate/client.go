package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
)

// Client fetches currency conversion rates from an open.er-api.com style
// endpoint (GET {baseURL}/{from} returns all rates against {from}).
// Responses are cached per base currency so a burst of receipt creations
// does not hammer the upstream API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cachedRates
}

type cachedRates struct {
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

type ratesResponse struct {
	Result string                     `json:"result"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

var _ portssvc.RateProviderSvc = (*Client)(nil)

// NewClient creates a new exchange rate client.
func NewClient(baseURL string, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		cacheTTL:   cacheTTL,
		cache:      make(map[string]cachedRates),
	}
}

// GetRate returns the multiplier that converts fromCurrency into toCurrency.
func (c *Client) GetRate(ctx context.Context, fromCurrency string, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}

	rates, err := c.ratesFor(ctx, fromCurrency)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates[toCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate published for %s -> %s", fromCurrency, toCurrency)
	}
	return rate, nil
}

func (c *Client) ratesFor(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	c.mu.Lock()
	cached, ok := c.cache[base]
	c.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < c.cacheTTL {
		return cached.rates, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rate response: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("exchange rate API returned result %q", body.Result)
	}

	c.mu.Lock()
	c.cache[base] = cachedRates{rates: body.Rates, fetchedAt: time.Now()}
	c.mu.Unlock()

	return body.Rates, nil
}
