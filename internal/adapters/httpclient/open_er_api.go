package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ratehub/internal/domain"
)

// OpenERAPIClient talks to the open.er-api.com free tier (no API key).
type OpenERAPIClient struct {
	http    *http.Client
	baseURL string
}

type apiResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

// GetExchangeRates fetches the full rate mapping relative to base. Every
// failure mode wraps a distinct domain sentinel so callers can classify it.
func (c *OpenERAPIClient) GetExchangeRates(ctx context.Context, base string) (map[string]float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + base

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: currency %q: %v", domain.ErrNetwork, base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: currency %q: %s", domain.ErrUpstreamHTTP, base, resp.Status)
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: currency %q: %v", domain.ErrMalformedResponse, base, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("%w: currency %q: result %q", domain.ErrUpstreamLogic, base, body.Result)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: currency %q: empty rates", domain.ErrUpstreamLogic, base)
	}

	return body.Rates, nil
}

func NewOpenERAPIClient(httpClient *http.Client, baseURL string) *OpenERAPIClient {
	return &OpenERAPIClient{http: httpClient, baseURL: baseURL}
}
