package auth

import (
	"context"
	"net/http"
	"time"
)

// CookieName is the session cookie. HttpOnly keeps JavaScript from reading
// the token, which takes XSS token theft off the table.
const CookieName = "token"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// session in a request context — no collisions with other packages.
type contextKey string

const sessionKey contextKey = "session"

// SessionReader turns an incoming request into a Session, or reports that
// there is none. This is the "session provider" the gate middleware and the
// API handlers share: a missing cookie, an expired token, and a forged token
// all look identical to callers — no session.
type SessionReader struct {
	tokens *TokenService
}

func NewSessionReader(tokens *TokenService) *SessionReader {
	return &SessionReader{tokens: tokens}
}

// FromRequest reads and validates the session cookie.
// Returns (nil, nil) when the request is simply anonymous; the error return
// exists for future providers that can fail for other reasons (e.g. a session
// store lookup) — the JWT reader never uses it.
func (sr *SessionReader) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return nil, nil
	}

	session, err := sr.tokens.Validate(cookie.Value)
	if err != nil {
		// Invalid and absent are deliberately indistinguishable.
		return nil, nil
	}

	return session, nil
}

// RequireAuth enforces authentication on API routes. Without a valid session
// the chain stops with a 401; with one, the session rides along in the
// request context for handlers to pick up.
func RequireAuth(sessions *SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := sessions.FromRequest(r)
			if session == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the authenticated session placed in the
// context by RequireAuth. ok is false for anonymous requests.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s.UserID != ""
}

// NewSessionCookie wraps a signed token in the session cookie.
// SameSite=Lax sends the cookie on top-level navigations (so following a
// link to /vi/dashboard works) but not on cross-site subrequests.
func NewSessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie returns a cookie that expires the session immediately.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
