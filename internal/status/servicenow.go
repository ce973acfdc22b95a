package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// DefaultTable is the CMDB table holding application records.
const DefaultTable = "cmdb_ci_application"

// ErrInvalidName is returned for names that would change the meaning of a
// ServiceNow encoded query.
var ErrInvalidName = errors.New("invalid component name")

// ServiceNowConfig holds the connection settings for a ServiceNow instance.
type ServiceNowConfig struct {
	Instance string // base URL, e.g. https://example.service-now.com
	Username string
	Password string
	Table    string
	Timeout  time.Duration
}

// ServiceNowClient reads component status from a ServiceNow table.
type ServiceNowClient struct {
	cfg    ServiceNowConfig
	client *http.Client
}

// NewServiceNowClient creates a client for the given instance.
func NewServiceNowClient(cfg ServiceNowConfig) *ServiceNowClient {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.Instance = strings.TrimRight(cfg.Instance, "/")
	return &ServiceNowClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type tableResponse struct {
	Result []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"result"`
}

// Status looks up the first record whose name equals name. A record without a
// status, or no record at all, reports unknown.
func (c *ServiceNowClient) Status(ctx context.Context, name string) (hierarchy.Status, error) {
	// ^ separates clauses in an encoded query.
	if strings.Contains(name, "^") {
		return hierarchy.StatusUnknown, fmt.Errorf("%w: %q contains '^'", ErrInvalidName, name)
	}
	q := url.Values{}
	q.Set("sysparm_query", "name="+name)
	q.Set("sysparm_limit", "1")
	q.Set("sysparm_fields", "name,status")
	endpoint := fmt.Sprintf("%s/api/now/table/%s?%s", c.cfg.Instance, url.PathEscape(c.cfg.Table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("creating servicenow request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("servicenow request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("reading servicenow response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return hierarchy.StatusUnknown, fmt.Errorf("servicenow returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var tr tableResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return hierarchy.StatusUnknown, fmt.Errorf("decoding servicenow response: %w", err)
	}
	if len(tr.Result) == 0 {
		return hierarchy.StatusUnknown, nil
	}
	return hierarchy.ParseStatus(tr.Result[0].Status), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
