package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/leadisle/faceid/internal/pairing/domain"
)

// RelyingParty identifies this service to authenticators. ID must be a
// registrable domain suffix of every origin in Origins.
type RelyingParty struct {
	ID          string
	DisplayName string
	Origins     []string
}

// CeremonyEngine drives WebAuthn registration and authentication ceremonies.
// Challenge state produced by a Begin call is opaque to callers; they persist
// it on the pairing session and hand it back to the matching Finish call.
type CeremonyEngine struct {
	web *webauthn.WebAuthn
}

// NewCeremonyEngine configures the underlying WebAuthn validator. The
// ceremony timeout is aligned with ttl so a challenge stays valid for as
// long as the pairing session that carries it.
func NewCeremonyEngine(rp RelyingParty, ttl time.Duration) (*CeremonyEngine, error) {
	timeout := webauthn.TimeoutConfig{
		Enforce:    true,
		Timeout:    ttl,
		TimeoutUVD: ttl,
	}

	web, err := webauthn.New(&webauthn.Config{
		RPID:          rp.ID,
		RPDisplayName: rp.DisplayName,
		RPOrigins:     rp.Origins,
		Timeouts: webauthn.TimeoutsConfig{
			Login:        timeout,
			Registration: timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("configure webauthn: %w", err)
	}

	return &CeremonyEngine{web: web}, nil
}

// BeginRegistration issues creation options for the user behind cred and
// returns them alongside the serialized challenge state.
func (e *CeremonyEngine) BeginRegistration(cred domain.Credential) (*protocol.CredentialCreation, []byte, error) {
	user := newCeremonyUser(cred)

	options, session, err := e.web.BeginRegistration(user,
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			ResidentKey:             protocol.ResidentKeyRequirementRequired,
			RequireResidentKey:      protocol.ResidentKeyRequired(),
			UserVerification:        protocol.VerificationRequired,
		}),
		webauthn.WithConveyancePreference(protocol.PreferNoAttestation),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("begin registration: %w", err)
	}

	challenge, err := json.Marshal(session)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ceremony state: %w", err)
	}
	return options, challenge, nil
}

// ParseRegistrationResponse decodes an attestation response without touching
// any state. A decode failure means the payload is malformed.
func (e *CeremonyEngine) ParseRegistrationResponse(response []byte) (*protocol.ParsedCredentialCreationData, error) {
	parsed, err := protocol.ParseCredentialCreationResponseBytes(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return parsed, nil
}

// FinishRegistration verifies the attestation against the stored challenge
// and returns the minted credential on success.
func (e *CeremonyEngine) FinishRegistration(cred domain.Credential, challenge []byte, parsed *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	var session webauthn.SessionData
	if err := json.Unmarshal(challenge, &session); err != nil {
		return nil, fmt.Errorf("unmarshal ceremony state: %w", err)
	}

	created, err := e.web.CreateCredential(newCeremonyUser(cred), session, parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	return created, nil
}

// BeginAuthentication issues discoverable assertion options. No user is
// known yet; the authenticator names the credential in its response.
func (e *CeremonyEngine) BeginAuthentication() (*protocol.CredentialAssertion, []byte, error) {
	options, session, err := e.web.BeginDiscoverableLogin(
		webauthn.WithUserVerification(protocol.VerificationRequired),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("begin authentication: %w", err)
	}

	challenge, err := json.Marshal(session)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ceremony state: %w", err)
	}
	return options, challenge, nil
}

// ParseAuthenticationResponse decodes an assertion response without touching
// any state, so the caller can resolve the named credential first.
func (e *CeremonyEngine) ParseAuthenticationResponse(response []byte) (*protocol.ParsedCredentialAssertionData, error) {
	parsed, err := protocol.ParseCredentialRequestResponseBytes(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return parsed, nil
}

// FinishAuthentication verifies the assertion against the stored challenge
// and credential. A signature counter that failed to advance is treated as a
// cloned-authenticator signal and fails verification.
func (e *CeremonyEngine) FinishAuthentication(cred domain.Credential, challenge []byte, parsed *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	var session webauthn.SessionData
	if err := json.Unmarshal(challenge, &session); err != nil {
		return nil, fmt.Errorf("unmarshal ceremony state: %w", err)
	}

	user := newCeremonyUser(cred)
	handler := func(rawID, userHandle []byte) (webauthn.User, error) {
		return user, nil
	}

	_, validated, err := e.web.ValidatePasskeyLogin(handler, session, parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if validated.Authenticator.CloneWarning {
		return nil, fmt.Errorf("%w: signature counter did not advance", ErrVerificationFailed)
	}
	return validated, nil
}

// EncodeCredentialID renders a raw credential id in the canonical form used
// everywhere a credential id is stored or compared.
func EncodeCredentialID(rawID []byte) string {
	return base64.RawURLEncoding.EncodeToString(rawID)
}

// ceremonyUser adapts a credential record to the shape the WebAuthn
// validator expects. An unbound record (registration not yet finished)
// simply presents no credentials.
type ceremonyUser struct {
	record      domain.Credential
	credentials []webauthn.Credential
}

func newCeremonyUser(record domain.Credential) *ceremonyUser {
	u := &ceremonyUser{record: record}
	if !record.Completed() {
		return u
	}

	rawID, err := base64.RawURLEncoding.DecodeString(record.CredentialID)
	if err != nil {
		return u
	}

	transports := make([]protocol.AuthenticatorTransport, 0, len(record.Transports))
	for _, t := range record.Transports {
		transports = append(transports, protocol.AuthenticatorTransport(t))
	}

	u.credentials = []webauthn.Credential{{
		ID:        rawID,
		PublicKey: record.PublicKey,
		Transport: transports,
		Authenticator: webauthn.Authenticator{
			SignCount: record.SignCount,
		},
	}}
	return u
}

func (u *ceremonyUser) WebAuthnID() []byte                         { return []byte(u.record.UserID) }
func (u *ceremonyUser) WebAuthnName() string                       { return u.record.Username }
func (u *ceremonyUser) WebAuthnDisplayName() string                { return u.record.Username }
func (u *ceremonyUser) WebAuthnIcon() string                       { return "" }
func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }
