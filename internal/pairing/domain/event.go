package domain

// SessionEvent is pushed to every subscriber of a session's channel after a
// state transition commits. Delivery is best effort; the stored session
// record remains the source of truth and the PC side polls it as a fallback.
type SessionEvent struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Username  string        `json:"username,omitempty"`
}
