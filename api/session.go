package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session tokens are HMAC-signed JWTs rather than bare base64 payloads, so a
// client cannot mint one without the server secret.
const sessionTTL = 24 * time.Hour

func issueSessionToken(secret []byte, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifySessionToken checks signature and expiry. Every failure mode is
// reported identically; the middleware maps it to a uniform 401.
func verifySessionToken(secret []byte, token string) error {
	_, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return err
}
