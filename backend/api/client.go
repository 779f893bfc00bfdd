package api

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

	"assignmentmate/backend/auth"
)

// Client talks to the Assignment Mate REST backend. A Client is safe for
// concurrent use; WithCredential returns a scoped copy sharing the transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cred       auth.Credential
}

// New builds a client. A zero timeout leaves requests unbounded except by
// their context.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) WithCredential(cred auth.Credential) *Client {
	scoped := *c
	scoped.cred = cred
	return &scoped
}

func (c *Client) Credential() auth.Credential {
	return c.cred
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if !c.cred.Empty() {
		req.Header.Set("Authorization", c.cred.Header())
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Err: fmt.Errorf("read: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func statusError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: errorMessage(body)}
	switch status {
	case http.StatusNotFound:
		apiErr.Err = ErrNotFound
	case http.StatusUnauthorized:
		apiErr.Err = ErrUnauthenticated
	}
	return apiErr
}

// errorMessage pulls the human readable reason out of the backend's error
// bodies ({"error": ...}, {"detail": ...} or {"message": ...}).
func errorMessage(body []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if msg, ok := fields[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
