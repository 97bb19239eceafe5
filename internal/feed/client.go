package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fotoroute/internal/model"
)

// Client talks to a route server (see internal/server).
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Key() string { return "url:" + c.BaseURL }

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) endpoint(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if c.Token != "" {
		q.Set("token", c.Token)
	}
	u := strings.TrimRight(c.BaseURL, "/") + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, StatusError{Code: resp.StatusCode, Message: errorMessage(b)}
	}
	return b, nil
}

// errorMessage pulls "error" out of a JSON error body, or returns the body text.
func errorMessage(b []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &env); err == nil && env.Error != "" {
		return env.Error
	}
	return strings.TrimSpace(string(b))
}

func (c *Client) Route(ctx context.Context) (*model.Route, error) {
	b, err := c.get(ctx, c.endpoint("/api/route", nil))
	if err != nil {
		return nil, fmt.Errorf("fetch route: %w", err)
	}
	var r model.Route
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}
	return withStats(&r), nil
}

func (c *Client) Thumb(ctx context.Context, filename string, original bool) ([]byte, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.New("thumb: missing filename")
	}
	q := url.Values{}
	if original {
		q.Set("size", "original")
	}
	b, err := c.get(ctx, c.endpoint("/api/thumb/"+escapePath(filename), q))
	if err != nil {
		return nil, fmt.Errorf("fetch thumb %s: %w", filename, err)
	}
	return b, nil
}

// escapePath escapes each segment so nested library paths keep their slashes.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
