// Package api exposes the query surface over HTTP. All endpoints are
// read-only: the vault is indexed at startup and never mutated here.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/halvard/munin/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *service.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/search", h.Search)
	r.Get("/documents/*", h.GetDocument)
	r.Get("/tags", h.ListTags)
	r.Get("/recent", h.Recent)
	r.Get("/summary", h.Summary)

	return r
}
