package pairing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/descope/virtualwebauthn"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/leadisle/faceid/pkg/pairsdk"
)

/*
 * Common constants and helper functions for pairing service end-to-end tests.
 * This includes container setup, ceremony helpers, and assertions.
 */

const (
	testImageName = "faceid-pairing-test:latest"

	testRPID     = "example.com"
	testRPName   = "FaceID Pairing"
	testRPOrigin = "https://example.com"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Pairing Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Pairing Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/faceid/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupPairingContainer starts the pairing service in a container and returns
// the base URL.
func setupPairingContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"FACEID_DATABASE_FILE":   "/tmp/faceid.db",
			"FACEID_ISSUER":          "faceid-e2e",
			"FACEID_RP_ID":           testRPID,
			"FACEID_RP_DISPLAY_NAME": testRPName,
			"FACEID_RP_ORIGINS":      testRPOrigin,
			"ENV":                    "test",
			"LOG_LEVEL":              "info",
			"LOG_FORMAT":             "json",
			// Increase rate limits for E2E tests to prevent test failures
			// Tests make many rapid ceremony requests from one IP
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

func testRelyingParty() virtualwebauthn.RelyingParty {
	return virtualwebauthn.RelyingParty{Name: testRPName, ID: testRPID, Origin: testRPOrigin}
}

// ceremonyPublicKey unwraps the publicKey envelope of a start response.
func ceremonyPublicKey(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var options pairsdk.CeremonyOptions
	require.NoError(t, json.Unmarshal(raw, &options))
	require.NotEmpty(t, options.PublicKey)
	return string(options.PublicKey)
}

// registerUser drives a complete registration ceremony and returns the
// credential the virtual authenticator minted.
func registerUser(t *testing.T, client *pairsdk.Client, username string) virtualwebauthn.Credential {
	t.Helper()
	ctx := context.Background()

	session, err := client.CreateSession(ctx, pairsdk.KindRegister)
	require.NoError(t, err)
	require.Equal(t, pairsdk.StatusPending, session.Status)

	startRaw, err := client.StartRegistration(ctx, session.SessionID, username)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAttestationOptions(ceremonyPublicKey(t, startRaw))
	require.NoError(t, err)

	authenticator := virtualwebauthn.NewAuthenticator()
	credential := virtualwebauthn.NewCredential(virtualwebauthn.KeyTypeEC2)
	attestation := virtualwebauthn.CreateAttestationResponse(testRelyingParty(), authenticator, credential, *parsedOptions)

	finish, err := client.FinishRegistration(ctx, session.SessionID, json.RawMessage(attestation))
	require.NoError(t, err)
	require.True(t, finish.Verified, "registration should verify")
	require.Equal(t, username, finish.Username)

	return credential
}

// findUserID looks up a username in the user listing.
func findUserID(t *testing.T, client *pairsdk.Client, username string) string {
	t.Helper()

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		if u.Username == username {
			return u.ID
		}
	}

	t.Fatalf("User '%s' not found", username)
	return ""
}

// authenticateUser drives a complete authentication ceremony with the given
// credential and user id, returning the finish response.
func authenticateUser(t *testing.T, client *pairsdk.Client, credential virtualwebauthn.Credential, userID string) *pairsdk.FinishResponse {
	t.Helper()
	ctx := context.Background()

	session, err := client.CreateSession(ctx, pairsdk.KindAuthenticate)
	require.NoError(t, err)

	startRaw, err := client.StartAuthentication(ctx, session.SessionID)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAssertionOptions(ceremonyPublicKey(t, startRaw))
	require.NoError(t, err)

	authenticator := virtualwebauthn.NewAuthenticatorWithOptions(virtualwebauthn.AuthenticatorOptions{
		UserHandle: []byte(userID),
	})
	authenticator.AddCredential(credential)
	assertion := virtualwebauthn.CreateAssertionResponse(testRelyingParty(), authenticator, credential, *parsedOptions)

	finish, err := client.FinishAuthentication(ctx, session.SessionID, json.RawMessage(assertion))
	require.NoError(t, err)
	return finish
}

// assertPairingError verifies an error is a *pairsdk.PairingError with the
// expected status and code.
func assertPairingError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var perr *pairsdk.PairingError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, status, perr.StatusCode)
	require.Equal(t, code, perr.Code)
}
