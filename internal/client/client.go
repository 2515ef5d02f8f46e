// Package client talks to the chat server's messages API.
package client

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

	"github.com/johndosdos/anonchat/internal/model"
)

const messagesPath = "/api/messages"

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is a thin JSON client for /api/messages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches every message the server currently holds, oldest first.
func (c *Client) List(ctx context.Context) ([]model.Message, error) {
	var out struct {
		Messages []model.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Send posts a message and returns it as stored by the server.
func (c *Client) Send(ctx context.Context, text, user string) (model.Message, error) {
	body, err := json.Marshal(map[string]string{"text": text, "user": user})
	if err != nil {
		return model.Message{}, fmt.Errorf("internal/client: could not encode message: %w", err)
	}

	var out struct {
		Success bool          `json:"success"`
		Message model.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, body, &out); err != nil {
		return model.Message{}, err
	}
	if !out.Success {
		return model.Message{}, errors.New("internal/client: server did not confirm the message")
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+messagesPath, reader)
	if err != nil {
		return fmt.Errorf("internal/client: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("internal/client: %s %s: %w", method, messagesPath, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(res.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("internal/client: could not decode response: %w", err)
	}
	return nil
}
