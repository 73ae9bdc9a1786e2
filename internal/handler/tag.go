package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/service"
)

// TagHandler serves the tag vocabulary the filter UI is built from.
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: logger}
}

// HandleList returns all tags, or one type's worth.
//
// HTTP: GET /api/tags            → every tag
// HTTP: GET /api/tags?type=topic → topic tags only
//
// Counts reflect the ledger as of the last snippet mutation — which, because
// recounts run synchronously after every write, means they are current.
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tagType := r.URL.Query().Get("type")

	var (
		tags any
		err  error
	)
	if tagType != "" {
		tags, err = h.tags.ListByType(r.Context(), tagType)
	} else {
		tags, err = h.tags.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}
