package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/matseq/internal/domain"
)

// HTTPClient implements DataSource by calling the matseq REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the catalogue and usage history live on the remote server (accessed
// over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is required for the generation and validation endpoints.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTPClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/api/v1/sequences", nil, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/sequences returned %d: %s", status, body)
	}

	var res domain.GenerateResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("httpclient: decode sequence: %w", err)
	}
	return &res, nil
}

func (c *HTTPClient) Validate(ctx context.Context, userID int, movementIDs []string, difficulty domain.Difficulty, targetDurationSec int) (*domain.QualityReport, error) {
	payload := map[string]any{
		"user_id":                 userID,
		"movement_ids":            movementIDs,
		"difficulty":              difficulty,
		"target_duration_seconds": targetDurationSec,
	}
	body, status, err := c.do(ctx, http.MethodPost, "/api/v1/sequences/validate", nil, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/sequences/validate returned %d: %s", status, body)
	}

	var report domain.QualityReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("httpclient: decode quality report: %w", err)
	}
	return &report, nil
}

func (c *HTTPClient) ListMovements(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error) {
	params := url.Values{}
	params.Set("difficulty", maxTier.String())

	body, status, err := c.get(ctx, "/api/v1/movements", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/movements returned %d: %s", status, body)
	}

	var movements []domain.Movement
	if err := json.Unmarshal(body, &movements); err != nil {
		return nil, fmt.Errorf("httpclient: decode movements: %w", err)
	}
	return movements, nil
}

func (c *HTTPClient) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	body, status, err := c.get(ctx, "/api/v1/movements/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/movements/%s returned %d: %s", id, status, body)
	}

	var m domain.Movement
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("httpclient: decode movement: %w", err)
	}
	return &m, nil
}

func (c *HTTPClient) ListRules(ctx context.Context) ([]domain.SequenceRule, error) {
	body, status, err := c.get(ctx, "/api/v1/rules", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: /api/v1/rules returned %d: %s", status, body)
	}

	var rules []domain.SequenceRule
	if err := json.Unmarshal(body, &rules); err != nil {
		return nil, fmt.Errorf("httpclient: decode rules: %w", err)
	}
	return rules, nil
}
