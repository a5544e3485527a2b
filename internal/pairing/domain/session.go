package domain

import "time"

// SessionKind identifies which ceremony a pairing session was created for.
// It is fixed at creation and never changes.
type SessionKind string

const (
	SessionKindRegister     SessionKind = "register"
	SessionKindAuthenticate SessionKind = "authenticate"
)

// Valid reports whether k is a known session kind.
func (k SessionKind) Valid() bool {
	return k == SessionKindRegister || k == SessionKindAuthenticate
}

// SessionStatus is the pairing session state machine. Transitions only move
// forward: pending -> scanned -> succeeded | failed.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionScanned   SessionStatus = "scanned"
	SessionSucceeded SessionStatus = "succeeded"
	SessionFailed    SessionStatus = "failed"
)

// Terminal reports whether the status is an end state. Terminal sessions are
// permanently inert and never reused.
func (s SessionStatus) Terminal() bool {
	return s == SessionSucceeded || s == SessionFailed
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition. No transition skips a state and nothing leaves a terminal state.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionPending:
		return next == SessionScanned
	case SessionScanned:
		return next == SessionSucceeded || next == SessionFailed
	default:
		return false
	}
}

// Session links a stationary client (the PC rendering a QR code) to the
// mobile client that performs the WebAuthn ceremony. The session id doubles
// as the push-notification channel key.
type Session struct {
	ID        string // opaque random token, immutable
	Kind      SessionKind
	Status    SessionStatus
	Challenge []byte // serialized ceremony state, write-once at SCANNED
	UserID    string // bound credential record, write-once
	Username  string // display name, set once known
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session window has closed at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// EffectiveStatus is the status a reader should observe: a session past its
// expiry reads as failed regardless of what is stored.
func (s Session) EffectiveStatus(now time.Time) SessionStatus {
	if !s.Status.Terminal() && s.Expired(now) {
		return SessionFailed
	}
	return s.Status
}
