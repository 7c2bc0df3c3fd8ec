// Package api is the client of the content backend: feeds, single items,
// interactions, authentication, uploads and admin moderation. Every call is a
// single request; failures are returned to the caller and never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0x0BSoD/am5tv/internal/metrics"
	"github.com/0x0BSoD/am5tv/internal/model"
)

// TokenSource yields the bearer token stored for a role, or "" when the role
// has no session.
type TokenSource interface {
	Token(role model.Role) string
}

type authMode int

const (
	authNone authMode = iota
	// authUser prefers the user token and falls back to the admin one.
	authUser
	authAdmin
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrMalformed        = errors.New("malformed backend response")
	ErrNotAdmin         = errors.New("account is not an admin")
)

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), e.Body)
}

// IsAuthorization reports whether err is a 401 or 403 from the backend.
func IsAuthorization(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return errors.Is(err, ErrNotAuthenticated)
	}
	return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	feedSize int
}

func New(baseURL string, timeout time.Duration, feedSize int) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		feedSize: feedSize,
	}
}

// WithTokens returns a copy of the client that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token(mode authMode) (string, error) {
	if mode == authNone {
		return "", nil
	}
	if c.tokens == nil {
		return "", ErrNotAuthenticated
	}

	var token string
	switch mode {
	case authUser:
		token = c.tokens.Token(model.RoleUser)
		if token == "" {
			token = c.tokens.Token(model.RoleAdmin)
		}
	case authAdmin:
		token = c.tokens.Token(model.RoleAdmin)
	}

	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

type call struct {
	endpoint    string
	method      string
	path        string
	query       url.Values
	auth        authMode
	body        io.Reader
	contentType string
}

func jsonCall(endpoint, method, path string, auth authMode, payload any) (call, error) {
	c := call{endpoint: endpoint, method: method, path: path, auth: auth}
	if payload == nil {
		return c, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return c, fmt.Errorf("encode %s request: %w", endpoint, err)
	}
	c.body = bytes.NewReader(raw)
	c.contentType = "application/json"

	return c, nil
}

// do executes the call and decodes a JSON body into out when out is not nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	token, err := c.token(cl.auth)
	if err != nil {
		return err
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", cl.endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(cl.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(cl.endpoint, "transport_error").Inc()
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(cl.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: cl.method,
			Path:   cl.path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrMalformed, cl.endpoint, err)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, auth authMode, out any) error {
	return c.do(ctx, call{endpoint: endpoint, method: http.MethodGet, path: path, query: query, auth: auth}, out)
}

func (c *Client) sendJSON(ctx context.Context, endpoint, method, path string, auth authMode, payload, out any) error {
	cl, err := jsonCall(endpoint, method, path, auth, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, cl, out)
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
