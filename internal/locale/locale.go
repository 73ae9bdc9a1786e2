// Package locale resolves a UI locale from request language preferences.
//
// The app ships in a small fixed set of languages (English and Vietnamese by
// default). Every page URL carries the locale as its first path segment
// (/en/snippets, /vi/dashboard); the gate middleware uses this package to
// decide which prefix to redirect a bare path to.
package locale

import (
	"golang.org/x/text/language"
)

// Resolver matches Accept-Language preferences against the supported set.
//
// It is built once at startup and is safe for concurrent use: language.Matcher
// is immutable after construction, and Resolve has no state of its own.
type Resolver struct {
	matcher    language.Matcher
	slugs      []string // parallel to the matcher's tag list, e.g. ["en", "vi"]
	defaultTag string
}

// NewResolver creates a Resolver for the given supported locales.
//
// supported are BCP 47 tags ("en", "vi"); the FIRST entry is also the
// fallback the matcher lands on when nothing fits, so callers should pass the
// default locale first. Unparseable entries are skipped rather than failing
// startup — a typo in config degrades to a smaller supported set.
func NewResolver(supported []string) *Resolver {
	tags := make([]language.Tag, 0, len(supported))
	slugs := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		slugs = append(slugs, s)
	}

	// Guard against an empty or entirely-invalid config.
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		slugs = []string{"en"}
	}

	return &Resolver{
		matcher:    language.NewMatcher(tags),
		slugs:      slugs,
		defaultTag: slugs[0],
	}
}

// Default returns the locale used when no preference matches.
func (r *Resolver) Default() string {
	return r.defaultTag
}

// Supported reports whether slug is one of the supported locales.
func (r *Resolver) Supported(slug string) bool {
	for _, s := range r.slugs {
		if s == slug {
			return true
		}
	}
	return false
}

// Resolve computes the preferred locale for an Accept-Language header value.
//
// Steps:
//  1. Parse the header into a weighted candidate list
//     (language.ParseAcceptLanguage already sorts by q-value).
//  2. Move any Vietnamese candidate to the FRONT of the list, regardless of
//     the weight the client gave it. This is a product decision carried over
//     deliberately: the site's primary audience is Vietnamese, and a browser
//     that lists "vi" anywhere gets the Vietnamese UI.
//  3. Best-fit match against the supported set; "fr-CA" finds nothing here,
//     "en-GB" finds "en".
//  4. Fall back to the default locale when nothing matches, the header is
//     empty, or it is malformed.
//
// Resolve never fails — it always returns a member of the supported set.
func (r *Resolver) Resolve(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return r.defaultTag
	}

	// Forced priority: stable-move every vi-based candidate to the front.
	reordered := make([]language.Tag, 0, len(prefs))
	rest := make([]language.Tag, 0, len(prefs))
	for _, p := range prefs {
		if base, _ := p.Base(); base.String() == "vi" {
			reordered = append(reordered, p)
		} else {
			rest = append(rest, p)
		}
	}
	reordered = append(reordered, rest...)

	// Match walks the candidates in order and returns the index of the best
	// supported tag. Confidence No means it only reached the fallback.
	_, index, confidence := r.matcher.Match(reordered...)
	if confidence == language.No {
		return r.defaultTag
	}
	return r.slugs[index]
}
