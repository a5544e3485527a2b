package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionKindValid(t *testing.T) {
	t.Parallel()

	require.True(t, SessionKindRegister.Valid())
	require.True(t, SessionKindAuthenticate.Valid())
	require.False(t, SessionKind("").Valid())
	require.False(t, SessionKind("login").Valid())
}

func TestSessionStatusTransitions(t *testing.T) {
	t.Parallel()

	t.Run("pending only moves to scanned", func(t *testing.T) {
		require.True(t, SessionPending.CanTransitionTo(SessionScanned))
		require.False(t, SessionPending.CanTransitionTo(SessionSucceeded))
		require.False(t, SessionPending.CanTransitionTo(SessionFailed))
		require.False(t, SessionPending.CanTransitionTo(SessionPending))
	})

	t.Run("scanned moves to either terminal state", func(t *testing.T) {
		require.True(t, SessionScanned.CanTransitionTo(SessionSucceeded))
		require.True(t, SessionScanned.CanTransitionTo(SessionFailed))
		require.False(t, SessionScanned.CanTransitionTo(SessionPending))
		require.False(t, SessionScanned.CanTransitionTo(SessionScanned))
	})

	t.Run("terminal states are dead ends", func(t *testing.T) {
		for _, terminal := range []SessionStatus{SessionSucceeded, SessionFailed} {
			require.True(t, terminal.Terminal())
			for _, next := range []SessionStatus{SessionPending, SessionScanned, SessionSucceeded, SessionFailed} {
				require.False(t, terminal.CanTransitionTo(next))
			}
		}
	})

	t.Run("non-terminal states", func(t *testing.T) {
		require.False(t, SessionPending.Terminal())
		require.False(t, SessionScanned.Terminal())
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	session := Session{
		Status:    SessionPending,
		ExpiresAt: now.Add(5 * time.Minute),
	}

	require.False(t, session.Expired(now))
	require.False(t, session.Expired(now.Add(5*time.Minute))) // boundary is inclusive
	require.True(t, session.Expired(now.Add(5*time.Minute+time.Second)))
}

func TestSessionEffectiveStatus(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	expired := now.Add(-time.Minute)
	live := now.Add(time.Minute)

	t.Run("expired non-terminal sessions read as failed", func(t *testing.T) {
		require.Equal(t, SessionFailed, Session{Status: SessionPending, ExpiresAt: expired}.EffectiveStatus(now))
		require.Equal(t, SessionFailed, Session{Status: SessionScanned, ExpiresAt: expired}.EffectiveStatus(now))
	})

	t.Run("terminal status survives expiry", func(t *testing.T) {
		require.Equal(t, SessionSucceeded, Session{Status: SessionSucceeded, ExpiresAt: expired}.EffectiveStatus(now))
		require.Equal(t, SessionFailed, Session{Status: SessionFailed, ExpiresAt: expired}.EffectiveStatus(now))
	})

	t.Run("live sessions report stored status", func(t *testing.T) {
		require.Equal(t, SessionPending, Session{Status: SessionPending, ExpiresAt: live}.EffectiveStatus(now))
		require.Equal(t, SessionScanned, Session{Status: SessionScanned, ExpiresAt: live}.EffectiveStatus(now))
	})
}

func TestCredentialCompleted(t *testing.T) {
	t.Parallel()

	require.False(t, Credential{}.Completed())
	require.False(t, Credential{CredentialID: "abc"}.Completed())
	require.False(t, Credential{PublicKey: []byte{1}}.Completed())
	require.True(t, Credential{CredentialID: "abc", PublicKey: []byte{1}}.Completed())
}
