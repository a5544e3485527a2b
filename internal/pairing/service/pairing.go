package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/leadisle/faceid/internal/pairing/domain"
	"github.com/leadisle/faceid/internal/pairing/store"
	"github.com/leadisle/faceid/pkg/cryptox"
	"github.com/leadisle/faceid/pkg/idx"
)

var (
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
	ErrAlreadyRegistered  = errors.New("username already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrMalformedResponse  = errors.New("malformed authenticator response")
	ErrVerificationFailed = errors.New("verification failed")
)

// FinishResult is the outcome of a finish ceremony. Verified false with a
// nil error means the ceremony completed but the assertion did not check
// out; the session has already been moved to failed.
type FinishResult struct {
	Verified    bool
	Username    string
	AccessToken string
}

// PairingService owns the cross-device pairing lifecycle: short-lived
// sessions created by the PC, scanned and finished by the phone, with
// state changes fanned out through the hub.
//
// All phone-side operations on one session are serialized through a keyed
// mutex, and every state transition is additionally guarded at the store
// level, so a lost race surfaces as ErrStaleWrite rather than a double
// transition.
type PairingService struct {
	Store      store.Store
	Engine     *CeremonyEngine
	Hub        *Hub
	Tokens     *TokenService
	Logger     *slog.Logger
	SessionTTL time.Duration

	locks keyedMutex
}

// CreateSession opens a new pending session for the given ceremony kind.
func (s *PairingService) CreateSession(ctx context.Context, kind domain.SessionKind) (domain.Session, error) {
	if !kind.Valid() {
		return domain.Session{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSession, kind)
	}

	id, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        id,
		Kind:      kind,
		Status:    domain.SessionPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// GetSession returns the stored session. Callers that only care about the
// observable state should use EffectiveStatus on the result, which reports
// expired non-terminal sessions as failed.
func (s *PairingService) GetSession(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.Store.Sessions().GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrInvalidSession
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// StartRegistration is called by the phone after scanning a registration
// QR code. It claims the pending session for the given username, binding
// it to a user record and a fresh ceremony challenge, and returns the
// creation options the phone feeds to its platform authenticator.
//
// A username that already finished registration is rejected. A username
// with only an unbound record (an earlier attempt that never finished) is
// reused, so retries do not strand names.
func (s *PairingService) StartRegistration(ctx context.Context, sessionID, username string) (*protocol.CredentialCreation, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.claimableSession(ctx, sessionID, domain.SessionKindRegister)
	if err != nil {
		return nil, err
	}

	cred, err := s.Store.Credentials().GetCredentialByUsername(ctx, username)
	switch {
	case err == nil:
		if cred.Completed() {
			return nil, ErrAlreadyRegistered
		}
	case errors.Is(err, store.ErrNotFound):
		now := time.Now().UTC()
		cred = domain.Credential{
			UserID:    idx.New().String(),
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Store.Credentials().CreateCredential(ctx, cred); err != nil {
			return nil, fmt.Errorf("create user record: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	options, challenge, err := s.Engine.BeginRegistration(cred)
	if err != nil {
		return nil, err
	}

	err = s.Store.Sessions().MarkSessionScanned(ctx, session.ID, challenge, cred.UserID, username)
	if errors.Is(err, store.ErrStaleWrite) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("mark session scanned: %w", err)
	}

	s.publish(session.ID, domain.SessionScanned, username)
	return options, nil
}

// FinishRegistration verifies the phone's attestation response and, on
// success, completes the user record with the new credential and settles
// the session as succeeded. A failed verification settles the session as
// failed; both outcomes are pushed to subscribers.
func (s *PairingService) FinishRegistration(ctx context.Context, sessionID string, response []byte) (FinishResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.finishableSession(ctx, sessionID, domain.SessionKindRegister)
	if err != nil {
		return FinishResult{}, err
	}
	if session.UserID == "" || session.Username == "" {
		return FinishResult{}, ErrInvalidSession
	}

	parsed, err := s.Engine.ParseRegistrationResponse(response)
	if err != nil {
		return FinishResult{}, err
	}

	cred, err := s.Store.Credentials().GetCredentialByUsername(ctx, session.Username)
	if err != nil || cred.UserID != session.UserID {
		return FinishResult{}, ErrInvalidSession
	}

	created, err := s.Engine.FinishRegistration(cred, session.Challenge, parsed)
	if errors.Is(err, ErrVerificationFailed) {
		s.settle(ctx, session.ID, domain.SessionFailed, "")
		return FinishResult{Verified: false}, nil
	}
	if err != nil {
		return FinishResult{}, err
	}

	credentialID := EncodeCredentialID(created.ID)
	transports := make([]string, 0, len(created.Transport))
	for _, t := range created.Transport {
		transports = append(transports, string(t))
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Credentials().CompleteRegistration(ctx, cred.UserID, credentialID,
			created.PublicKey, created.Authenticator.SignCount, transports)
		if err != nil {
			return fmt.Errorf("complete registration: %w", err)
		}
		err = tx.Sessions().MarkSessionFinished(ctx, session.ID, domain.SessionSucceeded, session.Username)
		if err != nil {
			return fmt.Errorf("mark session finished: %w", err)
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) || errors.Is(err, store.ErrStaleWrite) {
		s.settle(ctx, session.ID, domain.SessionFailed, "")
		return FinishResult{Verified: false}, nil
	}
	if err != nil {
		return FinishResult{}, err
	}

	s.publish(session.ID, domain.SessionSucceeded, session.Username)
	s.locks.Forget(session.ID)
	return FinishResult{Verified: true, Username: session.Username}, nil
}

// StartAuthentication is called by the phone after scanning a login QR
// code. It claims the pending session with a discoverable assertion
// challenge; the user is not known until the phone answers.
func (s *PairingService) StartAuthentication(ctx context.Context, sessionID string) (*protocol.CredentialAssertion, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.claimableSession(ctx, sessionID, domain.SessionKindAuthenticate)
	if err != nil {
		return nil, err
	}

	options, challenge, err := s.Engine.BeginAuthentication()
	if err != nil {
		return nil, err
	}

	err = s.Store.Sessions().MarkSessionScanned(ctx, session.ID, challenge, "", "")
	if errors.Is(err, store.ErrStaleWrite) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("mark session scanned: %w", err)
	}

	s.publish(session.ID, domain.SessionScanned, "")
	return options, nil
}

// FinishAuthentication verifies the phone's assertion response. The
// credential named in the response is resolved before any verification
// runs; an unknown credential settles the session as failed with
// ErrUserNotFound. On success the stored signature counter is advanced to
// the asserted value with a compare-and-swap, the session succeeds, and an
// access token for the user is minted.
func (s *PairingService) FinishAuthentication(ctx context.Context, sessionID string, response []byte) (FinishResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.finishableSession(ctx, sessionID, domain.SessionKindAuthenticate)
	if err != nil {
		return FinishResult{}, err
	}

	parsed, err := s.Engine.ParseAuthenticationResponse(response)
	if err != nil {
		return FinishResult{}, err
	}

	credentialID := EncodeCredentialID(parsed.RawID)
	cred, err := s.Store.Credentials().GetCredentialByID(ctx, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		s.settle(ctx, session.ID, domain.SessionFailed, "")
		return FinishResult{}, ErrUserNotFound
	}
	if err != nil {
		return FinishResult{}, fmt.Errorf("lookup credential: %w", err)
	}

	validated, err := s.Engine.FinishAuthentication(cred, session.Challenge, parsed)
	if errors.Is(err, ErrVerificationFailed) {
		s.settle(ctx, session.ID, domain.SessionFailed, "")
		return FinishResult{Verified: false}, nil
	}
	if err != nil {
		return FinishResult{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Credentials().UpdateSignCount(ctx, credentialID, cred.SignCount, validated.Authenticator.SignCount)
		if err != nil {
			return fmt.Errorf("update sign count: %w", err)
		}
		err = tx.Sessions().MarkSessionFinished(ctx, session.ID, domain.SessionSucceeded, cred.Username)
		if err != nil {
			return fmt.Errorf("mark session finished: %w", err)
		}
		return nil
	})
	if errors.Is(err, store.ErrStaleWrite) {
		s.settle(ctx, session.ID, domain.SessionFailed, "")
		return FinishResult{Verified: false}, nil
	}
	if err != nil {
		return FinishResult{}, err
	}

	result := FinishResult{Verified: true, Username: cred.Username}
	if s.Tokens != nil {
		token, err := s.Tokens.MintAccessToken(cred)
		if err != nil {
			s.logger().Error("failed to mint access token", "error", err)
		} else {
			result.AccessToken = token
		}
	}

	s.publish(session.ID, domain.SessionSucceeded, cred.Username)
	s.locks.Forget(session.ID)
	return result, nil
}

// claimableSession loads a session and checks it can be claimed by a start
// call: right kind, still pending, not expired.
func (s *PairingService) claimableSession(ctx context.Context, id string, kind domain.SessionKind) (domain.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Kind != kind {
		return domain.Session{}, ErrInvalidSession
	}
	if session.Expired(time.Now().UTC()) {
		return domain.Session{}, ErrSessionExpired
	}
	if session.Status != domain.SessionPending {
		return domain.Session{}, ErrInvalidSession
	}
	return session, nil
}

// finishableSession loads a session and checks it can be finished: right
// kind, scanned with a stored challenge, not expired.
func (s *PairingService) finishableSession(ctx context.Context, id string, kind domain.SessionKind) (domain.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Kind != kind {
		return domain.Session{}, ErrInvalidSession
	}
	if session.Expired(time.Now().UTC()) {
		return domain.Session{}, ErrSessionExpired
	}
	if session.Status != domain.SessionScanned || len(session.Challenge) == 0 {
		return domain.Session{}, ErrInvalidSession
	}
	return session, nil
}

// settle moves a scanned session to a terminal status and notifies
// subscribers. A lost transition race is ignored; whoever won has already
// settled and published.
func (s *PairingService) settle(ctx context.Context, id string, status domain.SessionStatus, username string) {
	err := s.Store.Sessions().MarkSessionFinished(ctx, id, status, username)
	if errors.Is(err, store.ErrStaleWrite) {
		return
	}
	if err != nil {
		s.logger().Error("failed to settle session", "session_id", id, "error", err)
		return
	}
	s.publish(id, status, username)
	s.locks.Forget(id)
}

// publish pushes a state change to subscribers. Delivery is fire and
// forget; the session record remains the source of truth.
func (s *PairingService) publish(sessionID string, status domain.SessionStatus, username string) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(sessionID, domain.SessionEvent{
		SessionID: sessionID,
		Status:    status,
		Username:  username,
	})
}

func (s *PairingService) ttl() time.Duration {
	if s.SessionTTL <= 0 {
		return 5 * time.Minute
	}
	return s.SessionTTL
}

func (s *PairingService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
