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

	"github.com/nimamura/fencing-drill/internal/drill"
	"github.com/nimamura/fencing-drill/internal/generator"
	"github.com/nimamura/fencing-drill/internal/session"
)

// HTTPClient implements DataSource by calling the REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but sessions
// live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	return c.do(req, path)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path)
}

func (c *HTTPClient) do(req *http.Request, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListCommands(ctx context.Context, tier, weapon string) ([]CommandInfo, error) {
	params := url.Values{}
	if tier != "" {
		params.Set("tier", tier)
	}
	if weapon != "" {
		params.Set("weapon", weapon)
	}

	body, err := c.get(ctx, "/api/v1/commands", params)
	if err != nil {
		return nil, err
	}

	var commands []CommandInfo
	if err := json.Unmarshal(body, &commands); err != nil {
		return nil, fmt.Errorf("httpclient: decode commands: %w", err)
	}
	return commands, nil
}

func (c *HTTPClient) ListPatterns(ctx context.Context) ([]drill.Pattern, error) {
	body, err := c.get(ctx, "/api/v1/patterns", nil)
	if err != nil {
		return nil, err
	}

	var patterns []drill.Pattern
	if err := json.Unmarshal(body, &patterns); err != nil {
		return nil, fmt.Errorf("httpclient: decode patterns: %w", err)
	}
	return patterns, nil
}

func (c *HTTPClient) ListWeapons(ctx context.Context) ([]drill.WeaponProfile, error) {
	body, err := c.get(ctx, "/api/v1/weapons", nil)
	if err != nil {
		return nil, err
	}

	var weapons []drill.WeaponProfile
	if err := json.Unmarshal(body, &weapons); err != nil {
		return nil, fmt.Errorf("httpclient: decode weapons: %w", err)
	}
	return weapons, nil
}

func (c *HTTPClient) StartSession(ctx context.Context, req generator.Request) (*session.Snapshot, error) {
	body, err := c.post(ctx, "/api/v1/sessions", req)
	if err != nil {
		return nil, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &snap, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id string) (*session.Snapshot, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &snap, nil
}

func (c *HTTPClient) StopSession(ctx context.Context, id string) error {
	_, err := c.post(ctx, "/api/v1/sessions/"+url.PathEscape(id)+"/stop", struct{}{})
	return err
}
