package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ownerContextKey = "ownerID"

var errMissingSubject = errors.New("token has no subject")

// NewToken mints an HS256 token whose subject is the owner id. A zero ttl
// produces a token that never expires.
func NewToken(secret, owner string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:  owner,
		IssuedAt: jwt.NewNumericDate(now),
		Issuer:   "focus",
	}

	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// parseToken returns the owner id carried by a valid token.
func parseToken(secret []byte, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(_ *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errMissingSubject
	}

	return claims.Subject, nil
}

// authenticate requires a bearer token and stores its owner id on the
// request context.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		writeError(c, unauthorized("missing authorization header"))
		return
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		writeError(c, unauthorized("invalid authorization format"))
		return
	}

	owner, err := parseToken(s.secret, strings.TrimSpace(token))
	if err != nil {
		s.logger.DebugContext(
			c.Request.Context(),
			"rejected token",
			"error", err,
		)

		writeError(c, unauthorized("invalid or expired token"))

		return
	}

	c.Set(ownerContextKey, owner)
	c.Next()
}

// ownerID returns the authenticated owner, or "" when auth is disabled.
func ownerID(c *gin.Context) string {
	return c.GetString(ownerContextKey)
}
