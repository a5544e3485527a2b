package domain

import "time"

// Credential is a per-user WebAuthn credential record. A record is created
// unbound on the first registration attempt for a username and completed
// only on verified registration.
type Credential struct {
	UserID   string // ULID, generated on first registration attempt
	Username string // unique among completed credentials

	// Key material, set only on successful registration. CredentialID is
	// the base64url encoding of the raw credential id and is the lookup
	// key for authentication; the same encoding is used at registration
	// and authentication time, byte for byte.
	CredentialID string
	PublicKey    []byte
	SignCount    uint32 // monotonically non-decreasing
	Transports   []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed reports whether the record has been bound to key material.
// Usernames with an uncompleted record may be re-registered.
func (c Credential) Completed() bool {
	return c.CredentialID != "" && len(c.PublicKey) > 0
}
