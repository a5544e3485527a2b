package pairsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the pairing service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a pairing service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession opens a new pairing session of the given kind.
func (c *Client) CreateSession(ctx context.Context, kind string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/sessions", CreateSessionRequest{Kind: kind}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches the current state of a session. The PC polls this as
// a fallback when the websocket is unavailable.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/sessions/"+sessionID, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StartRegistration claims a registration session for a username and
// returns the raw WebAuthn creation options.
func (c *Client) StartRegistration(ctx context.Context, sessionID, username string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, "/v1/registration/start",
		RegistrationStartRequest{SessionID: sessionID, Username: username}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinishRegistration submits the authenticator's attestation response.
func (c *Client) FinishRegistration(ctx context.Context, sessionID string, response json.RawMessage) (*FinishResponse, error) {
	var out FinishResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/registration/finish",
		RegistrationFinishRequest{SessionID: sessionID, Response: response}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StartAuthentication claims an authentication session and returns the raw
// WebAuthn request options.
func (c *Client) StartAuthentication(ctx context.Context, sessionID string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, "/v1/authentication/start",
		AuthenticationStartRequest{SessionID: sessionID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinishAuthentication submits the authenticator's assertion response.
func (c *Client) FinishAuthentication(ctx context.Context, sessionID string, response json.RawMessage) (*FinishResponse, error) {
	var out FinishResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/authentication/finish",
		AuthenticationFinishRequest{SessionID: sessionID, Response: response}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches all user records.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz checks the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs a JSON request/response round trip. Non-2xx responses
// are decoded into *PairingError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("pairsdk: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("pairsdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("pairsdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("pairsdk: read response: %w", err)
	}

	if err := parseErrorResponse(resp, raw); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("pairsdk: decode response: %w", err)
	}
	return nil
}
