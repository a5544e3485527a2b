package pairsdk

import (
	"encoding/json"
	"time"
)

// Session kinds.
const (
	KindRegister     = "register"
	KindAuthenticate = "authenticate"
)

// Session statuses.
const (
	StatusPending   = "pending"
	StatusScanned   = "scanned"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Kind string `json:"kind"`
}

// SessionResponse describes a pairing session. The session id doubles as
// the QR payload the PC renders for the phone.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegistrationStartRequest is the body of POST /v1/registration/start.
type RegistrationStartRequest struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// RegistrationFinishRequest is the body of POST /v1/registration/finish.
// Response carries the authenticator's attestation response verbatim.
type RegistrationFinishRequest struct {
	SessionID string          `json:"session_id"`
	Response  json.RawMessage `json:"response"`
}

// AuthenticationStartRequest is the body of POST /v1/authentication/start.
type AuthenticationStartRequest struct {
	SessionID string `json:"session_id"`
}

// AuthenticationFinishRequest is the body of POST /v1/authentication/finish.
// Response carries the authenticator's assertion response verbatim.
type AuthenticationFinishRequest struct {
	SessionID string          `json:"session_id"`
	Response  json.RawMessage `json:"response"`
}

// CeremonyOptions wraps the WebAuthn options JSON produced by a start call.
// The payload is handed to the platform authenticator untouched.
type CeremonyOptions struct {
	PublicKey json.RawMessage `json:"publicKey"`
}

// FinishResponse is the outcome of a finish call. Verified false with a
// populated Error means the ceremony completed but was rejected.
type FinishResponse struct {
	Verified    bool   `json:"verified"`
	Username    string `json:"username,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Error       string `json:"error,omitempty"`
}

// User is one entry of GET /v1/users.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionEvent is pushed over the events websocket on every session
// state change.
type SessionEvent struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Username  string `json:"username,omitempty"`
}

// EventFrame is the envelope for websocket traffic in both directions.
// Clients send {event: subscribe|unsubscribe, session_id}; the service
// pushes {event: sessionUpdate, data: {...}}.
type EventFrame struct {
	Event     string        `json:"event"`
	SessionID string        `json:"session_id,omitempty"`
	Data      *SessionEvent `json:"data,omitempty"`
}

// Websocket event names.
const (
	EventSubscribe     = "subscribe"
	EventUnsubscribe   = "unsubscribe"
	EventSessionUpdate = "sessionUpdate"
)

// ErrorResponse is the wire shape of service errors.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthChecks reports per-dependency health in readiness responses.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Signer   string `json:"signer,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
