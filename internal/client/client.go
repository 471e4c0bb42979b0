// Package client talks to the REST API on behalf of a session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/session"
)

// APIError is a non-2xx response. errors.Is matches it against the apperr
// kind for its status.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return apperr.KindForStatus(e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL. sess may be nil for
// unauthenticated use.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Session {
	return c.session
}

// do sends in as JSON and decodes the response into out. A 401 ends the
// session, mirroring a browser client that forgets its token.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb) == nil && eb.Error != "" {
			apiErr.Message, apiErr.Details = eb.Error, eb.Details
		}
		if resp.StatusCode == http.StatusUnauthorized && c.session != nil && c.session.IsAuthenticated() {
			slog.Info("Session rejected by server, logging out", "path", path)
			if err := c.session.Logout(); err != nil {
				return errors.Join(apiErr, err)
			}
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
