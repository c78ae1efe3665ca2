package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
)

// RoleOperator is the role claim granting access to the operator routes.
const RoleOperator = "operator"

// Claims are the claims of the bearer tokens accepted by the API. The subject
// is the identity of the caller.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.StandardClaims
}

// NewToken returns a token for the given identity signed with the HS256
// secret. A zero ttl returns a token that never expires.
func NewToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if len(secret) <= 0 {
		return "", fmt.Errorf("missing secret")
	}
	if len(subject) <= 0 {
		return "", fmt.Errorf("missing subject")
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:  subject,
			IssuedAt: now.Unix(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type callerKey struct{}

type caller struct {
	identity string
	role     string
}

func callerFromContext(ctx context.Context) string {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c.identity
}

type authenticator struct {
	secret []byte
}

// authenticated rejects requests without a valid bearer token and adds the
// caller to the request context.
func (a authenticator) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := a.parseToken(r)
		if err != nil {
			log.WithError(err).Debugf("rejected unauthenticated request %s", r.URL.Path)
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, *c)))
	}
}

// operator rejects requests whose bearer token lacks the operator role.
func (a authenticator) operator(next http.HandlerFunc) http.HandlerFunc {
	return a.authenticated(func(w http.ResponseWriter, r *http.Request) {
		c, _ := r.Context().Value(callerKey{}).(caller)
		if c.role != RoleOperator {
			writeDomainError(w, domain.ErrNotOperator)
			return
		}
		next(w, r)
	})
}

func (a authenticator) parseToken(r *http.Request) (*caller, error) {
	header := r.Header.Get("Authorization")
	if len(header) <= 0 {
		return nil, fmt.Errorf("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid Authorization header format")
	}

	token, err := jwt.ParseWithClaims(
		parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return a.secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %s", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if len(claims.Subject) <= 0 {
		return nil, fmt.Errorf("token has no subject")
	}
	return &caller{claims.Subject, claims.Role}, nil
}
