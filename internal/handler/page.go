package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PageHandler serves the locale-prefixed page shells (/{locale},
// /{locale}/dashboard, /{locale}/snippets/...). The actual UI is a separate
// frontend talking to /api; these shells exist so every URL the gate
// redirects to is a real route, and so the app is navigable without the
// frontend during development.
type PageHandler struct {
	logger *slog.Logger
}

func NewPageHandler(logger *slog.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

// HandlePage writes a minimal HTML shell naming the resolved locale and the
// page path. Deliberately unstyled and template-free.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w,
		`<!doctype html><html lang=%q><head><title>Snippet Share</title></head>`+
			`<body><div id="app" data-locale=%q data-path=%q></div></body></html>`,
		locale, locale, r.URL.Path,
	)
}
