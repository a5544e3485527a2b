package pairing_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/descope/virtualwebauthn"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/leadisle/faceid/pkg/pairsdk"
)

// TestAuthenticationFlow registers a user and then signs them in with the
// same virtual authenticator, checking the access token comes back signed.
func TestAuthenticationFlow(t *testing.T) {
	baseURL, cleanup := setupPairingContainer(t)
	defer cleanup()

	client := pairsdk.NewClient(baseURL)

	credential := registerUser(t, client, "alice")
	userID := findUserID(t, client, "alice")

	credential.Counter++
	finish := authenticateUser(t, client, credential, userID)
	require.True(t, finish.Verified)
	require.Equal(t, "alice", finish.Username)
	require.NotEmpty(t, finish.AccessToken)

	// The token is a well-formed EdDSA JWT naming the user; the signature
	// is verifiable against the JWKS endpoint.
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"EdDSA"}))
	token, _, err := parser.ParseUnverified(finish.AccessToken, jwt.MapClaims{})
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, userID, claims["sub"])
	require.Equal(t, "alice", claims["username"])
	require.Equal(t, "faceid-e2e", claims["iss"])
}

// TestAuthenticationUnknownCredential verifies an assertion from a credential
// the service never saw reports "User not found" without an HTTP error.
func TestAuthenticationUnknownCredential(t *testing.T) {
	baseURL, cleanup := setupPairingContainer(t)
	defer cleanup()

	client := pairsdk.NewClient(baseURL)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, pairsdk.KindAuthenticate)
	require.NoError(t, err)

	startRaw, err := client.StartAuthentication(ctx, session.SessionID)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAssertionOptions(ceremonyPublicKey(t, startRaw))
	require.NoError(t, err)

	stray := virtualwebauthn.NewCredential(virtualwebauthn.KeyTypeEC2)
	authenticator := virtualwebauthn.NewAuthenticatorWithOptions(virtualwebauthn.AuthenticatorOptions{
		UserHandle: []byte("nobody"),
	})
	authenticator.AddCredential(stray)
	assertion := virtualwebauthn.CreateAssertionResponse(testRelyingParty(), authenticator, stray, *parsedOptions)

	finish, err := client.FinishAuthentication(ctx, session.SessionID, json.RawMessage(assertion))
	require.NoError(t, err)
	require.False(t, finish.Verified)
	require.Equal(t, "User not found", finish.Error)

	state, err := client.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, pairsdk.StatusFailed, state.Status)
}

// TestAuthenticationCounterReplay verifies a stale signature counter is
// rejected as a cloned-authenticator signal.
func TestAuthenticationCounterReplay(t *testing.T) {
	baseURL, cleanup := setupPairingContainer(t)
	defer cleanup()

	client := pairsdk.NewClient(baseURL)

	credential := registerUser(t, client, "bob")
	userID := findUserID(t, client, "bob")

	credential.Counter++
	first := authenticateUser(t, client, credential, userID)
	require.True(t, first.Verified)

	// Same counter again: the assertion is cryptographically valid but the
	// counter did not advance, so verification fails.
	second := authenticateUser(t, client, credential, userID)
	require.False(t, second.Verified)
	require.Empty(t, second.AccessToken)

	// A fresh counter recovers.
	credential.Counter++
	third := authenticateUser(t, client, credential, userID)
	require.True(t, third.Verified)
}

// TestAuthenticationRepeatedLogins verifies the counter advances across many
// ceremonies.
func TestAuthenticationRepeatedLogins(t *testing.T) {
	baseURL, cleanup := setupPairingContainer(t)
	defer cleanup()

	client := pairsdk.NewClient(baseURL)

	credential := registerUser(t, client, "carol")
	userID := findUserID(t, client, "carol")

	for i := 0; i < 3; i++ {
		credential.Counter++
		finish := authenticateUser(t, client, credential, userID)
		require.True(t, finish.Verified, "login %d should verify", i+1)
	}
}
