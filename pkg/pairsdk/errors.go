package pairsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leadisle/faceid/pkg/httpx"
)

// Error codes returned by the pairing service.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidSession    = "invalid_session"
	ErrorCodeSessionExpired    = "session_expired"
	ErrorCodeAlreadyRegistered = "already_registered"
	ErrorCodeServerError       = "server_error"
)

// PairingError is the service's error response shape. It implements the
// error interface and is used both by HTTP handlers (to write responses)
// and by the SDK client (to represent decoded errors).
type PairingError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_session")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *PairingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this PairingError to an HTTP response writer.
func (e *PairingError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &PairingError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidSession is returned when the session does not exist, has the
	// wrong kind for the operation, or is not in a state the operation accepts.
	ErrInvalidSession = &PairingError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeInvalidSession,
		Description: "unknown session, or session not in a valid state for this operation",
	}

	// ErrSessionExpired is returned when the pairing window has closed.
	ErrSessionExpired = &PairingError{
		StatusCode:  http.StatusGone,
		Code:        ErrorCodeSessionExpired,
		Description: "the pairing session has expired",
	}

	// ErrAlreadyRegistered is returned when the username already has a
	// completed credential.
	ErrAlreadyRegistered = &PairingError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyRegistered,
		Description: "username is already registered",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &PairingError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx HTTP response into a *PairingError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &PairingError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &PairingError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
