package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tazhibayda/crm-service/internal/security"
)

const DefaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var (
	// ErrNotConfigured means the server has no expected audience; this is a
	// deployment problem (500), never the caller's fault.
	ErrNotConfigured = errors.New("google client id not configured")
	ErrInvalidToken  = errors.New("invalid google id token")
)

// Profile is the verified subset of a Google ID token this service uses.
type Profile struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// Verifier checks Google-issued ID tokens against Google's published keys.
// Signature, expiry and audience are enforced by the JWT layer; issuer and
// email presence are checked here.
type Verifier struct {
	ClientID string
	Keys     *security.Fetcher
}

func NewVerifier(clientID, jwksURL string) *Verifier {
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}
	return &Verifier{
		ClientID: clientID,
		Keys:     security.NewFetcher(jwksURL, time.Hour),
	}
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(ctx context.Context, raw string) (*Profile, error) {
	if v == nil || v.ClientID == "" {
		return nil, ErrNotConfigured
	}

	// unverified pass only to extract the kid
	parser := jwt.NewParser()
	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	kid, _ := tok.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: no kid", ErrInvalidToken)
	}
	pub, err := v.Keys.Key(ctx, kid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &idTokenClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithAudience(v.ClientID)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	iss := strings.TrimSpace(claims.Issuer)
	if iss != "accounts.google.com" && iss != "https://accounts.google.com" {
		return nil, fmt.Errorf("%w: bad iss", ErrInvalidToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}

	return &Profile{
		Sub:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
