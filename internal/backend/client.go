// Package backend is the HTTP client for the analytics backend the screen talks to.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmanalytics/miniapp/internal/model"
)

const (
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 15 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	maxErrorBody = 64 << 10
)

// Header names and values sent to the backend.
const (
	HeaderAuthorization = "Authorization"
	HeaderSkipWarning   = "ngrok-skip-browser-warning"
	HeaderRequestID     = "X-Request-ID"

	// AuthScheme prefixes the opaque init token in the Authorization header.
	AuthScheme = "twa-init-data"
)

// Endpoint paths.
const (
	PathAuth         = "/auth"
	PathAccountsList = "/accounts_list"
	PathTeamData     = "/admin/get_full_team_data"
	PathAnalyticsAdd = "/analytics_add"
	PathRegisterUser = "/register_user"
	PathSyncStart    = "/sync/start"
	PathSyncLogs     = "/sync/logs"
)

// NewHTTPClient creates an HTTP client with conservative timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Client calls the backend on behalf of one init token.
type Client struct {
	baseURL  string
	initData string
	http     *http.Client
	logger   *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client. initData is forwarded verbatim and never parsed.
func New(baseURL, initData string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		initData: initData,
		http:     NewHTTPClient(DefaultTimeout),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "backend.client")
	return c
}

// Auth exchanges the init token for the current user's profile.
func (c *Client) Auth(ctx context.Context) (*model.Profile, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, PathAuth, true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// AccountsList returns the account names a post can be attributed to.
func (c *Client) AccountsList(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, PathAccountsList, true, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// TeamData returns the roster. A missing members field yields an empty slice.
func (c *Client) TeamData(ctx context.Context) ([]model.Member, error) {
	var resp model.TeamResponse
	if err := c.do(ctx, http.MethodGet, PathTeamData, true, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Members == nil {
		return []model.Member{}, nil
	}
	return resp.Members, nil
}

// AddAnalytics submits a batch of post links.
func (c *Client) AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error {
	return c.do(ctx, http.MethodPost, PathAnalyticsAdd, true, model.AnalyticsBatch{Data: items}, nil)
}

// RegisterUser creates a team member.
func (c *Client) RegisterUser(ctx context.Context, req model.RegisterUserRequest) error {
	return c.do(ctx, http.MethodPost, PathRegisterUser, true, req, nil)
}

// StartSync asks the backend to begin a data-collection run.
func (c *Client) StartSync(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathSyncStart, true, nil, nil)
}

// SyncLogs reads the current sync log lines. This endpoint is unauthenticated.
// A body without a logs array is an error so callers keep what they show.
func (c *Client) SyncLogs(ctx context.Context) ([]string, error) {
	var resp model.SyncLogsResponse
	if err := c.do(ctx, http.MethodGet, PathSyncLogs, false, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Logs == nil {
		return nil, ErrMissingLogs
	}
	return resp.Logs, nil
}

// do issues one request. Non-2xx responses become *APIError; transport
// failures are returned wrapped.
func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.New().String()
	req.Header.Set(HeaderSkipWarning, "true")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(HeaderAuthorization, AuthScheme+" "+c.initData)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", resp.StatusCode),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var errBody model.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil {
			apiErr.Detail = errBody.Detail
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
