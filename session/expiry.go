package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
)

// ExpiryFromToken reads the exp claim of a JWT access token. The signature is not
// verified; the backend remains the authority on validity.
func ExpiryFromToken(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, perrors.Wrapf(perrors.ErrInvalidExpiry, "token is not a JWT (%v)", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, perrors.Wrapf(perrors.ErrInvalidExpiry, "bad exp claim (%v)", err)
	}
	if exp == nil {
		return time.Time{}, perrors.Wrapf(perrors.ErrInvalidExpiry, "token has no exp claim")
	}
	return exp.Time, nil
}
