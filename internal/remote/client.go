// Package remote is the HTTP client of the lead nurture API. It maps
// transport and server failures onto the apperror kinds: 401 and 403 are
// authentication failures, every other failure is a remote request error
// carrying the server's reason when it gave one.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/apperror"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api/"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 4 << 20
)

// Client talks to the lead nurture API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "remote").Logger(),
	}
}

// do issues one call. cred is nil for the unauthenticated token endpoints;
// otherwise the bearer token is read from it right before dispatch.
func (c *Client) do(ctx context.Context, op, method, path string, cred auth.Credential, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimLeft(path, "/"), payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred != nil {
		token, err := cred.BearerToken()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("remote call failed")
		return &apperror.RemoteRequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &apperror.RemoteRequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("remote call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		reason := errorReason(raw)
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return &apperror.AuthenticationError{Reason: reason}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &apperror.RemoteRequestError{Op: op, StatusCode: resp.StatusCode, Reason: errorReason(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperror.RemoteRequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorReason pulls the human readable reason out of an error body:
// {"detail": "..."}, {"detail": [{"msg": "..."}]} or {"message": "..."}.
func errorReason(raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return body.Message
}

// statusEnvelope is the {status, message} wrapper the AI endpoints use.
type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e statusEnvelope) check(op string) error {
	if e.Status == "success" {
		return nil
	}
	return &apperror.RemoteRequestError{Op: op, Reason: e.Message}
}
