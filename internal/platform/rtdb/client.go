// Package rtdb is a thin REST client for a Firebase-compatible realtime
// database. Every node is addressed by a slash-separated path; reading an
// absent path yields JSON null, and pushing under a path returns a
// server-generated child key.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable is returned when the database cannot be reached or
// rejects the request. Callers must not assume anything was persisted.
var ErrUnavailable = errors.New("document store unavailable")

type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
	limiter    *rate.Limiter
}

func NewClient(baseURL, authToken string, rps int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: authToken,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// Get reads the value at path into target. An absent path decodes as JSON
// null and leaves target at its zero value.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}

// Set writes value at path, replacing whatever was there.
func (c *Client) Set(ctx context.Context, path string, value any) error {
	_, err := c.doJSON(ctx, http.MethodPut, path, value)
	return err
}

// Patch merges fields into the value at path. Only the supplied keys are
// overwritten; everything else at the node is left untouched.
func (c *Client) Patch(ctx context.Context, path string, fields any) error {
	_, err := c.doJSON(ctx, http.MethodPatch, path, fields)
	return err
}

// Delete removes the value at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// Push stores value under a new server-generated child key of path and
// returns that key.
func (c *Client) Push(ctx context.Context, path string, value any) (string, error) {
	body, err := c.doJSON(ctx, http.MethodPost, path, value)
	if err != nil {
		return "", err
	}
	var res struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}
	if res.Name == "" {
		return "", fmt.Errorf("%w: push returned no key", ErrUnavailable)
	}
	return res.Name, nil
}

// Ping checks reachability by reading a node that is expected to be
// absent; an absent node is a successful, near-empty read.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "_ping", nil)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s.json", c.baseURL, strings.Trim(path, "/"))
	if c.authToken != "" {
		url += "?auth=" + c.authToken
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
