// Package supabase implements gateway.Gateway against a hosted Supabase
// project: GoTrue for identities and sessions, PostgREST for the users and
// people tables. Row-level security on the project scopes rows to the
// session's user; the adapter adds the same owner filters explicitly.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
)

// Client talks to one Supabase project.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     logging.Logger

	mu      sync.RWMutex
	session gateway.Session
	now     func() time.Time
}

var _ gateway.Gateway = (*Client)(nil)

// NewClient constructs a client for the project at baseURL
// (e.g. https://xyz.supabase.co) using its anon key.
func NewClient(baseURL, anonKey string, timeout time.Duration, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("gateway", "supabase"),
		now:        time.Now,
	}
}

func (c *Client) setSession(s gateway.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session.AccessToken != "" {
		return c.session.AccessToken
	}
	return c.anonKey
}

func (c *Client) SignOut() {
	c.setSession(gateway.Session{})
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// request describes one HTTP round trip. Query and Prefer are optional.
type request struct {
	method  string
	path    string
	query   url.Values
	prefer  string
	payload any
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.payload != nil {
		data, err := json.Marshal(r.payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return err
	}
	if r.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

// errorBody covers both GoTrue and PostgREST error shapes. GoTrue sends a
// numeric code, PostgREST a SQLSTATE string.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"`
}

func decodeError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	msg := firstNonEmpty(eb.Msg, eb.Message, eb.ErrorDescription, eb.Error, resp.Status)

	code := eb.ErrorCode
	if s, ok := eb.Code.(string); ok && code == "" {
		code = s
	}
	if code == "" && eb.ErrorDescription != "" {
		code = eb.Error
	}

	return &gateway.APIError{Status: resp.StatusCode, Code: strings.TrimSpace(code), Message: msg}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func eq(v string) string {
	return "eq." + v
}
