package store

import (
	"context"
	"errors"

	"github.com/leadisle/faceid/internal/pairing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStaleWrite reports a guarded update that matched no row, either
	// because the record is gone or because its guard column moved on.
	ErrStaleWrite = errors.New("store: stale write")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Sessions() Sessions
	Credentials() Credentials

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and
	// rolling back on error. Prefer this over Tx for multi-step writes
	// that must be atomic (e.g. credential completion + session finish).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Sessions interface {
	// CreateSession inserts a new pending session (id provided by the app).
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns a session by id.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// MarkSessionScanned transitions pending -> scanned in a single guarded
	// update, setting the challenge and binding the user in the same write.
	// Returns ErrStaleWrite if the session is no longer pending.
	MarkSessionScanned(ctx context.Context, id string, challenge []byte, userID, username string) error

	// MarkSessionFinished transitions scanned -> succeeded|failed in a
	// single guarded update. Returns ErrStaleWrite if the session is not
	// in the scanned state, so a terminal session is never resurrected.
	MarkSessionFinished(ctx context.Context, id string, status domain.SessionStatus, username string) error

	// DeleteExpiredSessions removes sessions past their expiry (housekeeping).
	DeleteExpiredSessions(ctx context.Context) error
}

type Credentials interface {
	// CreateCredential inserts a new (possibly unbound) credential record.
	CreateCredential(ctx context.Context, c domain.Credential) error

	// GetCredentialByUsername returns the record for a username.
	GetCredentialByUsername(ctx context.Context, username string) (domain.Credential, error)

	// GetCredentialByID returns the record owning a credential id. The id
	// is the canonical base64url encoding written at registration time.
	GetCredentialByID(ctx context.Context, credentialID string) (domain.Credential, error)

	// CompleteRegistration binds key material to an unbound record.
	CompleteRegistration(ctx context.Context, userID, credentialID string, publicKey []byte, signCount uint32, transports []string) error

	// UpdateSignCount compares-and-swaps the signature counter. Returns
	// ErrStaleWrite when the stored counter no longer equals from, which
	// means a concurrent authentication won the race.
	UpdateSignCount(ctx context.Context, credentialID string, from, to uint32) error

	// ListCredentials returns all records ordered by creation date.
	ListCredentials(ctx context.Context) ([]domain.Credential, error)
}
