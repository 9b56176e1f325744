// Package apiclient talks to the Remote Expense API: authentication, the
// group directory, categories and expense creation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/sharesplit/internal/models"
)

const maxBodyBytes = 1 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token, e.g. after logging in.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, "login", http.MethodPost, "/auth/login/", nil,
		loginRequest{Username: username, Password: password}, &session, "Login failed.")
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Access)
	return &session, nil
}

// Register creates an account and stores the returned access token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, "register", http.MethodPost, "/auth/register/", nil,
		registerRequest{Username: username, Email: email, Password: password}, &session, "Registration failed.")
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Access)
	return &session, nil
}

// SearchMembers lists users whose username matches query. An empty query
// lists everyone the server is willing to show.
func (c *Client) SearchMembers(ctx context.Context, query string) ([]models.Member, error) {
	var params url.Values
	if query != "" {
		params = url.Values{"username": {query}}
	}
	var members []models.Member
	if err := c.doList(ctx, "search members", "/auth/list/", params, &members, "Failed to fetch members."); err != nil {
		return nil, err
	}
	return members, nil
}

// ListGroups returns the groups the caller belongs to.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.doList(ctx, "list groups", "/expense/groups/", nil, &groups, "Failed to fetch groups."); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup returns a snapshot of one group and its members.
func (c *Client) GetGroup(ctx context.Context, id models.ID) (*models.Group, error) {
	var group models.Group
	path := groupPath(id)
	if err := c.do(ctx, "get group", http.MethodGet, path, nil, nil, &group, "Failed to fetch group."); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a group. The server adds the caller as a member.
func (c *Client) CreateGroup(ctx context.Context, name string, memberIDs []models.ID) (*models.Group, error) {
	var group models.Group
	err := c.do(ctx, "create group", http.MethodPost, "/expense/groups/", nil,
		createGroupRequest{Name: name, MemberIDs: memberIDs}, &group, "Failed to create group.")
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupBalances returns net balances and suggested payments for a group.
func (c *Client) GroupBalances(ctx context.Context, id models.ID) (*GroupBalances, error) {
	var balances GroupBalances
	path := groupPath(id) + "balances/"
	if err := c.do(ctx, "group balances", http.MethodGet, path, nil, nil, &balances, "Failed to fetch balances."); err != nil {
		return nil, err
	}
	return &balances, nil
}

// ListCategories returns the categories an expense can be filed under.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.doList(ctx, "list categories", "/expense/categories/", nil, &categories, "Failed to fetch categories."); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateExpense posts a shared expense. The call is made exactly once;
// failures are returned as *Error and never retried.
func (c *Client) CreateExpense(ctx context.Context, req ExpenseRequest) (*CreatedExpense, error) {
	var created CreatedExpense
	err := c.do(ctx, "create expense", http.MethodPost, "/expenses", nil, req, &created, "Failed to add shared expense.")
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// doList decodes either a bare JSON array or a paginated {"results": [...]}.
func (c *Client) doList(ctx context.Context, op, path string, params url.Values, out any, fallback string) error {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, params, nil, &raw, fallback); err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return &Error{Kind: KindServerRejected, Op: op, Status: http.StatusOK, Message: "unexpected response format"}
		}
		trimmed = page.Results
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &Error{Kind: KindServerRejected, Op: op, Status: http.StatusOK, Message: "unexpected response format"}
	}
	return nil
}

// groupPath is the escaped path of one group, with a trailing slash.
func groupPath(id models.ID) string {
	return "/expense/groups/" + url.PathEscape(id.String()) + "/"
}

// do sends one request. path must already be escaped.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any, fallback string) error {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", op, path, err)
	}
	u.Path = unescaped
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", "op", op, "method", method, "path", path, "error", err)
		return networkError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(op, err)
	}

	c.logger.Debug("API request completed",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejectedError(op, resp.StatusCode, data, fallback)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Creation succeeded even if the representation is not what we
		// expect; only the status matters for writes.
		if method == http.MethodPost {
			c.logger.Warn("API returned an unreadable body", "op", op, "error", err)
			return nil
		}
		return &Error{Kind: KindServerRejected, Op: op, Status: resp.StatusCode, Message: "unexpected response format"}
	}
	return nil
}
