package status

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// ProxyClient reads statuses through a riskmap server's /status endpoint.
type ProxyClient struct {
	baseURL string
	client  *http.Client
}

// NewProxyClient creates a client for the server at baseURL.
func NewProxyClient(baseURL string, timeout time.Duration) *ProxyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Status implements Client.
func (c *ProxyClient) Status(ctx context.Context, name string) (hierarchy.Status, error) {
	endpoint := fmt.Sprintf("%s/status/%s", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("creating status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("reading status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return hierarchy.StatusUnknown, fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var sr statusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("decoding status response: %w", err)
	}
	return hierarchy.ParseStatus(sr.Status), nil
}

type statusResponse struct {
	Status string `json:"status"`
}
