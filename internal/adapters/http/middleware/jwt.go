package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenLifetime is how long a minted access token stays valid.
const AccessTokenLifetime = 15 * time.Minute

var ErrInvalidToken = errors.New("invalid or expired access token")

// MintAccessToken creates a signed HS256 access token for an account.
// PRE: secret is non-empty; accountID, email, role identify a real account
// POST: Returns a compact JWT valid for AccessTokenLifetime
func MintAccessToken(secret []byte, accountID, email, role string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   accountID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(AccessTokenLifetime).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ParseAccessToken validates a compact JWT and returns the session it encodes.
// PRE: raw is a compact JWT string
// POST: Returns ErrInvalidToken for anything not signed with secret or expired
func ParseAccessToken(secret []byte, raw string) (Session, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{AccountID: sub, Email: email, Role: role}, nil
}

// BearerAuth returns middleware that authenticates requests via an
// Authorization: Bearer header. A missing header passes through so the
// cookie path still works; a present but invalid token is rejected.
func BearerAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			session, err := ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), accountContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
