package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after the
// route prefix). Supports encoded slashes from generated clients.
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// queryFromRequest builds a models.Query from URL parameters. Validation
// happens in the service.
func queryFromRequest(r *http.Request) models.Query {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	var tags []string
	for _, t := range q["tag"] {
		if t != "" {
			tags = append(tags, t)
		}
	}

	return models.Query{
		Text:           q.Get("q"),
		Tags:           tags,
		Type:           q.Get("type"),
		Status:         q.Get("status"),
		Category:       q.Get("category"),
		DateFrom:       q.Get("from"),
		DateTo:         q.Get("to"),
		PathPattern:    q.Get("path"),
		IncludeArchive: q.Get("archive") == "true",
		Limit:          limit,
	}
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Search(queryFromRequest(r))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidQuery) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docList(docs),
		"total":     len(docs),
	})
}

// GetDocument handles GET /api/documents/*.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.GetByPath(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get document failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags()
	if err != nil {
		slog.Error("list tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// Recent handles GET /api/recent.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	docs, err := h.svc.GetRecent(limit)
	if err != nil {
		slog.Error("recent failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docList(docs)})
}

// Summary handles GET /api/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summarize(queryFromRequest(r))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidQuery) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("summary failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// docListItem is the lightweight list representation: no full body.
type docListItem struct {
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Tags     []string `json:"tags"`
	Type     string   `json:"type"`
	Status   string   `json:"status"`
	Category string   `json:"category"`
	Modified string   `json:"modified,omitempty"`
}

func docList(docs []models.Document) []docListItem {
	out := make([]docListItem, len(docs))
	for i, d := range docs {
		out[i] = docListItem{
			Path:     d.Path,
			Title:    d.Title,
			Excerpt:  d.Excerpt,
			Tags:     d.Meta.Tags,
			Type:     d.Meta.Type,
			Status:   d.Meta.Status,
			Category: d.Meta.Category,
			Modified: d.Meta.Modified,
		}
	}
	return out
}
