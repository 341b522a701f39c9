package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
)

const userContextKey = "user"

// TokenIssuer signs and verifies HS256 session tokens whose subject is the
// account email.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for email and its expiry.
func (t *TokenIssuer) Issue(email string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Subject validates the token and returns its subject.
func (t *TokenIssuer) Subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token without subject", core.ErrInvalidCredentials)
	}
	return claims.Subject, nil
}

// bearerToken reads the Authorization header, falling back to the
// access_token query parameter used by <img> chart requests.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Query("access_token")
}

// authRequired rejects requests whose token is missing, invalid or names an
// account that is no longer stored.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		subject, err := s.tokens.Subject(token)
		if err != nil {
			s.logger.WarnContext(ctx, "Token rejected",
				log.FieldErrorType, log.ErrorTypeAuth, log.FieldError, err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := s.session.Current(ctx)
		if errors.Is(err, core.ErrNoSession) || (err == nil && user.Email != subject) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) core.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(core.User); ok {
			return u
		}
	}
	return core.User{}
}
