package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/service"
)

// stateCookie carries the OAuth CSRF state between the login redirect and
// the provider callback. Short-lived — the round trip takes seconds.
const stateCookie = "oauth_state"

// AuthHandler serves sign-up/sign-in/sign-out and the GitHub OAuth flow.
//
// The session itself is a JWT in an HttpOnly cookie; these handlers are the
// only place that cookie is ever set or cleared.
type AuthHandler struct {
	authService *service.AuthService
	github      *auth.GitHubProvider // nil when OAuth isn't configured
	sessionTTL  time.Duration
	secure      bool
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, github *auth.GitHubProvider, sessionTTL time.Duration, secure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		github:      github,
		sessionTTL:  sessionTTL,
		secure:      secure,
		logger:      logger,
	}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp registers a new account. It does NOT sign the user in —
// the client follows up with a sign-in call, keeping one code path for
// session issuance.
//
// HTTP: POST /api/auth/signup
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// HandleSignIn verifies credentials and sets the session cookie.
//
// HTTP: POST /api/auth/signin
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, token, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(token, h.sessionTTL, h.secure))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleSignOut clears the session cookie. The JWT itself stays valid until
// expiry (stateless tokens can't be revoked), but no browser will send it
// again.
//
// HTTP: POST /api/auth/signout
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.secure))
	writeJSON(w, http.StatusOK, map[string]any{"message": "Signed out"})
}

// HandleMe returns the caller's session identity, or 401 when anonymous.
// The frontend calls this on load to decide what to render.
//
// HTTP: GET /api/auth/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"id":    session.UserID,
			"email": session.Email,
			"name":  session.Name,
		},
	})
}

// HandleGitHubLogin starts the OAuth flow: stash a random state in a cookie,
// redirect to GitHub.
//
// HTTP: GET /api/auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeError(w, apperror.ValidationFailed("oauth", "GitHub sign-in is not configured"))
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the OAuth flow: verify the state, exchange
// the code, upsert the account, set the session cookie, and land the user on
// the dashboard (the gate adds the locale prefix on the next pass).
//
// HTTP: GET /api/auth/github/callback?code=...&state=...
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeError(w, apperror.ValidationFailed("oauth", "GitHub sign-in is not configured"))
		return
	}

	// State check — the cookie we set at login must match what GitHub echoes
	// back, or someone is splicing a foreign OAuth flow into this browser.
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, apperror.Unauthorized("OAuth state mismatch"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("GitHub OAuth exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthorized("GitHub sign-in failed"))
		return
	}

	_, token, err := h.authService.SignInWithGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(token, h.sessionTTL, h.secure))
	http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
}
