// Package api implements the Segno query API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/calloway/segno/internal/catalog"
)

// NewRouter creates a chi router with all query routes mounted.
// allowedOrigins configures CORS for browser clients; empty means
// same-origin only. eventsHandler, if non-nil, is mounted at GET /events.
func NewRouter(cat *catalog.Catalog, allowedOrigins []string, eventsHandler http.Handler) chi.Router {
	h := NewHandler(cat)

	r := chi.NewRouter()
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// Catalog queries.
	r.Get("/scores", h.ListScores)
	r.Get("/scores/*", h.GetScore)
	r.Get("/categories", h.Categories)
	r.Get("/composers", h.Composers)

	// Substring search.
	r.Get("/search/titles", h.SearchTitles)
	r.Get("/search/composers", h.SearchComposers)

	// Rebuild.
	r.Post("/catalog/reload", h.Reload)

	// SSE endpoint.
	if eventsHandler != nil {
		r.Get("/events", eventsHandler.ServeHTTP)
	}

	return r
}
