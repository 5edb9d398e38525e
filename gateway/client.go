// Package gateway talks to the remote game marketplace REST API.
package gateway

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

	"gamehub/monitoring"
	"gamehub/utils"

	"github.com/sirupsen/logrus"
)

// AuthHeader carries the session token on authenticated calls.
const AuthHeader = "X-Authorization"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer. Message is the API's error text, which it
// puts in the status line reason phrase.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ErrTransport wraps failures that never produced an HTTP answer.
var ErrTransport = errors.New("gateway: transport failure")

type request struct {
	method   string
	path     string
	endpoint string // route template, used as metric label
	token    string
	query    url.Values
	body     interface{}

	rawBody     io.Reader
	contentType string
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := r.contentType
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	} else if r.rawBody != nil {
		body = r.rawBody
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set(AuthHeader, r.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.ObserveGateway(r.method, r.endpoint, 0, started)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, r.method, r.endpoint, err)
	}
	monitoring.ObserveGateway(r.method, r.endpoint, resp.StatusCode, started)

	utils.Log.WithFields(logrus.Fields{
		"method":      r.method,
		"endpoint":    r.endpoint,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("Gateway call")

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp, nil
}

// do sends r and decodes a JSON answer into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", r.method, r.endpoint, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason != "" && reason != http.StatusText(resp.StatusCode) {
		apiErr.Message = reason
	}

	if apiErr.Message == "" {
		var body struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = reason
	}
	return apiErr
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
