package zenquotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-inspire-bot/internal/domain"
)

// Client fetches random inspirational quotes from a zenquotes-compatible API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns one formatted quote ("text - author").
// Returns a domain.ErrSourceUnavailable-wrapped error on any API failure.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/random", nil)
	if err != nil {
		return "", fmt.Errorf("build quote request: %v: %w", err, domain.ErrSourceUnavailable)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch quote: %v: %w", err, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote api status %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}

	var quotes []struct {
		Quote  string `json:"q"`
		Author string `json:"a"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return "", fmt.Errorf("decode quote: %v: %w", err, domain.ErrSourceUnavailable)
	}
	if len(quotes) == 0 {
		return "", fmt.Errorf("quote api returned no quotes: %w", domain.ErrSourceUnavailable)
	}
	return fmt.Sprintf("%s - %s", quotes[0].Quote, quotes[0].Author), nil
}
