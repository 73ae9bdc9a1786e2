// Package handler contains the HTTP layer: it parses requests, calls
// services, and writes responses. Handlers know about HTTP and JSON;
// business rules and SQL live a layer down.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
	"github.com/sakif/snippet-share/internal/service"
)

// SnippetHandler serves the /api/snippets routes.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// HandleList returns snippets matching the query-parameter filters.
//
// HTTP: GET /api/snippets?language=go&topic=sorting&authorId=X&search=binary
//
// All filters are optional and conjunctive. The response wraps the list in
// an object ({"snippets": [...]}) so fields can be added later without
// breaking clients.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.SnippetFilters{
		Language: q.Get("language"),
		Topic:    q.Get("topic"),
		AuthorID: q.Get("authorId"),
		Search:   q.Get("search"),
	}

	snippets, err := h.snippets.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"snippets": snippets})
}

// HandleGetByID returns a single snippet — and counts the view. Every hit on
// this endpoint increments the counter, the author's own included; that is
// the product's definition of a "view".
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snippet, err := h.snippets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"snippet": snippet})
}

// HandleCreate saves a new snippet owned by the authenticated caller.
//
// HTTP: POST /api/snippets (behind RequireAuth)
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("please sign in to create snippets"))
		return
	}

	var input model.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	snippet, err := h.snippets.Create(r.Context(), session.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Snippet created successfully",
		"snippet": snippet,
	})
}

// HandleUpdate merges the supplied fields onto an existing snippet.
// Ownership is enforced by the service — a non-owner gets 403.
//
// HTTP: PUT /api/snippets/{id} (behind RequireAuth)
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("please sign in to edit snippets"))
		return
	}

	var patch model.SnippetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	snippet, err := h.snippets.Update(r.Context(), chi.URLParam(r, "id"), session.UserID, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Snippet updated successfully",
		"snippet": snippet,
	})
}

// HandleDelete removes a snippet. Owner-only, like update.
//
// HTTP: DELETE /api/snippets/{id} (behind RequireAuth)
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("please sign in to delete snippets"))
		return
	}

	if err := h.snippets.Delete(r.Context(), chi.URLParam(r, "id"), session.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Snippet deleted successfully",
	})
}

// HandleMyStats returns the authenticated caller's dashboard numbers.
//
// HTTP: GET /api/stats/me (behind RequireAuth)
func (h *SnippetHandler) HandleMyStats(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("please sign in to view your stats"))
		return
	}

	stats, err := h.snippets.UserStats(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// HandleUserStats returns any user's public stats.
//
// HTTP: GET /api/users/{id}/stats
func (h *SnippetHandler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.snippets.UserStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
