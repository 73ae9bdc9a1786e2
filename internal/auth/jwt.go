// Package auth provides session tokens, password hashing, and the session
// middleware for the snippet-share API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User signs in with email/password (or via GitHub OAuth).
// 2. Server verifies the credentials and issues a JWT carrying the user's
//    id, email and name, stored in an HttpOnly cookie.
// 3. On subsequent requests, middleware reads the cookie, validates the JWT,
//    and exposes the session to handlers via the request context.
//
// WHY JWT?
// JWT is stateless — the server doesn't store session data. Everything needed
// (user identity, expiry) is inside the signed token, and the HMAC signature
// ensures nobody can tamper with it without the secret key. Validating a
// session costs zero database lookups.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "snippet-share"

// Session is the authenticated identity attached to a request.
// This is everything the rest of the app is allowed to know about the caller
// without hitting the users table.
type Session struct {
	UserID string
	Email  string
	Name   string
}

// TokenService handles JWT creation and validation.
// It holds the HMAC secret used to sign and verify tokens — the same secret
// must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production
// (JWT_SECRET=$(openssl rand -hex 32)); anything shorter than 16 is refused.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims provides the standard
// fields (Subject, ExpiresAt, IssuedAt, Issuer); we add the two profile
// fields the UI needs so a session requires no user lookup.
type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment where one process both issues and verifies.
func (s *TokenService) Generate(session Session) (string, error) {
	now := time.Now()

	c := claims{
		Email: session.Email,
		Name:  session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the session it
// carries.
//
// The jwt library checks the signature, expiry, and issuer for us. Passing
// jwt.WithValidMethods pins the algorithm to HS256 — without it, an attacker
// could attempt an algorithm-confusion attack with a token signed some other
// way.
func (s *TokenService) Validate(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Session{
		UserID: c.Subject,
		Email:  c.Email,
		Name:   c.Name,
	}, nil
}
