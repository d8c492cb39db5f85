package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// maxErrorDetail bounds how much of an error body ends up in a message.
const maxErrorDetail = 200

// Client is a thin JSON client for the dashboard REST backend.
// It performs exactly one request per call: there is no retry and no
// client-side timeout, cancellation only comes from the caller's context.
// Concurrent identical GETs share one round trip, but a GET issued
// after a write never joins a read that started before it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	reads      singleflight.Group

	// writes counts completed writes and is part of the read key.
	writes atomic.Uint64
}

// NewClient creates a client for the backend rooted at baseURL
// (e.g. http://localhost:8080). The token is optional; when set it is
// sent as a Bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	readKey := fmt.Sprintf("%d %s", c.writes.Load(), path)
	v, err, _ := c.reads.Do(readKey, func() (any, error) {
		return c.do(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	return decode(http.MethodGet, path, v.([]byte), result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.send(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.send(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	c.writes.Add(1)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	respBody, err := c.do(ctx, method, path, body)
	// Even a failed write may have reached the backend.
	c.writes.Add(1)
	if err != nil {
		return err
	}
	return decode(method, path, respBody, result)
}

// do builds the request, sends it once and classifies the outcome.
// The raw body of a 2xx response is returned for decoding.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, clientError(method, path, fmt.Errorf("marshaling request body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, clientError(method, path, fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clientError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clientError(method, path, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(method, path, resp.StatusCode, errorDetail(resp.StatusCode, respBody))
	}

	return respBody, nil
}

// decode unmarshals a 2xx body into result. An empty body (e.g. 204)
// leaves result untouched.
func decode(method, path string, body []byte, result any) error {
	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return clientError(method, path, fmt.Errorf("unmarshaling response: %w", err))
	}
	return nil
}

// errorResponse covers the error shapes commonly produced by Spring
// style backends.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorDetail extracts a readable reason from an error body.
func errorDetail(status int, body []byte) string {
	var er errorResponse
	if json.Unmarshal(body, &er) == nil {
		if er.Message != "" {
			return er.Message
		}
		if er.Error != "" {
			return er.Error
		}
	}

	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return http.StatusText(status)
	}
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail] + "..."
	}
	return detail
}
