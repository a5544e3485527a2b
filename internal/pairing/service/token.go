package service

import (
	"fmt"
	"time"

	"github.com/leadisle/faceid/internal/pairing/domain"
	"github.com/leadisle/faceid/pkg/jwtx"
)

// TokenService mints access tokens for users who completed an
// authentication ceremony. Keys are ephemeral: signing restarts fresh on
// every boot and old tokens stop verifying, which is acceptable for
// short-lived access tokens.
type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// MintAccessToken signs an access token for the credential's user. The amr
// claim records that the login was hardware-backed.
func (s *TokenService) MintAccessToken(cred domain.Credential) (string, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		cred.UserID,
		s.Issuer,
		cred.Username,
		[]string{"webauthn"},
		ttl,
		time.Now().UTC(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}
