// Package session keeps the locally stored login credential honest: it
// decodes the credential's claims and clears the session once they expire.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedCredential is returned for any credential whose claims cannot be read
var ErrMalformedCredential = errors.New("malformed credential")

// Credential is the decoded, unverified view of a stored bearer token
type Credential struct {
	Raw       string
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the credential's expiry lies before now.
// A credential without an expiry never expires on the client side.
func (c *Credential) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now)
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// ParseCredential decodes the claims segment of a compact three-segment
// token. The header and signature are not inspected; only the backend can
// verify them.
func ParseCredential(token string) (*Credential, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedCredential, len(parts))
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode claims: %v", ErrMalformedCredential, err)
	}

	claims := &jwt.RegisteredClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: could not read claims: %v", ErrMalformedCredential, err)
	}

	cred := &Credential{
		Raw:     token,
		Subject: claims.Subject,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		cred.ExpiresAt = &exp
	}
	if claims.IssuedAt != nil {
		iat := claims.IssuedAt.Time
		cred.IssuedAt = &iat
	}

	return cred, nil
}
