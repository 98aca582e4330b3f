package porssisahko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/t-800m101/spothinta-go/prices"
)

const (
	DefaultHourlyURL  = "https://api.porssisahko.net/v1/latest-prices.json"
	DefaultQuarterURL = "https://api.porssisahko.net/v2/latest-prices.json"
)

// Client fetches the latest spot prices for Finland from the
// porssisahko.net feed. The v1 endpoint serves hourly slots, the v2
// endpoint 15-minute slots; both use the same payload shape.
type Client struct {
	hourlyURL  string
	quarterURL string
	http       *http.Client
}

func New(hourlyURL, quarterURL string, timeout time.Duration) *Client {
	if hourlyURL == "" {
		hourlyURL = DefaultHourlyURL
	}
	if quarterURL == "" {
		quarterURL = DefaultQuarterURL
	}
	return &Client{
		hourlyURL:  hourlyURL,
		quarterURL: quarterURL,
		http:       &http.Client{Timeout: timeout},
	}
}

// FetchLatest downloads the latest-prices payload for the given
// resolution and returns the response body verbatim, so the caller can
// persist exactly what the feed served.
func (c *Client) FetchLatest(ctx context.Context, res prices.Resolution) ([]byte, error) {
	url := c.hourlyURL
	if res == prices.Quarter {
		url = c.quarterURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
