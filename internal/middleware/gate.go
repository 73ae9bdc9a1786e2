package middleware

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/sakif/snippet-share/internal/auth"
)

// LocaleResolver is the slice of internal/locale.Resolver the gate needs.
type LocaleResolver interface {
	Resolve(acceptLanguage string) string
	Supported(slug string) bool
}

// SessionSource is the slice of internal/auth.SessionReader the gate needs:
// a request either carries a valid session or it doesn't. Tests substitute a
// stub instead of minting real tokens.
type SessionSource interface {
	FromRequest(r *http.Request) (*auth.Session, error)
}

// assetPattern matches paths the gate must leave completely alone: the JSON
// API, static assets, and the well-known crawler files. API clients would be
// rather surprised by a locale redirect on /api/snippets.
var assetPattern = regexp.MustCompile(
	`^/(api|static|favicon\.ico|robots\.txt|sitemap|images|fonts|css)`)

// Gate is the single funnel every inbound request passes through. It applies
// two independent policies in strict order:
//
//  1. ASSET BYPASS — anything matching assetPattern passes untouched. Checked
//     first; short-circuits everything below.
//  2. LOCALE NORMALIZATION — "/" redirects to "/{locale}"; any other path
//     whose first segment is not a supported locale redirects to
//     "/{locale}{path}", preserving the query string verbatim. The locale
//     comes from the Accept-Language header via the resolver.
//  3. ACCESS GATE — paths containing "dashboard" or "profile" are protected:
//     without a session they redirect to the sign-in page. Paths containing
//     "auth" are sign-in/sign-up pages: with a session they redirect to the
//     dashboard. Everything else passes through.
//
// At most ONE redirect is issued per request. A protected path with no locale
// prefix redirects for the locale first; the browser's follow-up request then
// hits the access gate. The auth redirects themselves carry no locale prefix
// ("/auth/signin", "/dashboard") for the same reason — the next pass adds it.
//
// An invalid or expired session cookie is treated exactly like no cookie:
// the gate redirects, it never errors.
func Gate(locales LocaleResolver, sessions SessionSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if assetPattern.MatchString(path) {
				next.ServeHTTP(w, r)
				return
			}

			// Root carries no path to preserve — straight to the locale home.
			if path == "/" {
				locale := locales.Resolve(r.Header.Get("Accept-Language"))
				redirect(w, r, logger, "/"+locale, "locale")
				return
			}

			if !hasLocalePrefix(path, locales) {
				locale := locales.Resolve(r.Header.Get("Accept-Language"))
				target := "/" + locale + path
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				redirect(w, r, logger, target, "locale")
				return
			}

			session, _ := sessions.FromRequest(r)
			loggedIn := session != nil

			isProtected := strings.Contains(path, "dashboard") || strings.Contains(path, "profile")
			isAuthPage := strings.Contains(path, "auth")

			switch {
			case isProtected && !loggedIn:
				redirect(w, r, logger, "/auth/signin", "auth")
			case isAuthPage && loggedIn:
				redirect(w, r, logger, "/dashboard", "auth")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// hasLocalePrefix reports whether the first path segment is a supported
// locale: "/en" and "/en/snippets" count, "/english" and "/zz/foo" don't.
// An unrecognized segment isn't an error — the path just gets a resolved
// prefix in front of it, falling back to the default locale.
func hasLocalePrefix(path string, locales LocaleResolver) bool {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return locales.Supported(segment)
}

// redirect issues a 307. Temporary (not 308/301) because the target depends
// on per-request state — the caller's language preferences or session — and
// must never be cached by the browser.
func redirect(w http.ResponseWriter, r *http.Request, logger *slog.Logger, target, reason string) {
	logger.Debug("gate redirect",
		slog.String("from", r.URL.RequestURI()),
		slog.String("to", target),
		slog.String("reason", reason),
	)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
