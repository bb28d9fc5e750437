// Package token inspects opaque bearer credentials issued by the backend.
//
// The backend treats tokens as opaque strings, but in practice it issues
// JWTs. When a login response omits an explicit TTL, the token's own exp
// claim is a better expiry hint than a blanket default. Extraction is
// unverified on purpose: the client holds no signing key, and the server
// remains the authority on validity either way.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt extracts the exp claim from raw without verifying the
// signature. Returns false when raw is not a JWT or carries no exp claim.
func ExpiresAt(raw string) (time.Time, bool) {
	parser := jwt.NewParser()

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
