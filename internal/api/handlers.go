package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calloway/segno/internal/apperr"
	"github.com/calloway/segno/internal/catalog"
	"github.com/calloway/segno/internal/score"
)

// Handler holds API route handlers.
type Handler struct {
	cat *catalog.Catalog
}

// NewHandler creates a new Handler.
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{cat: cat}
}

// scorePath extracts the score path from the URL (everything after
// /api/scores/). Supports encoded slashes (e.g. ensemble%2Fstar-wars.gen).
func scorePath(r *http.Request) string {
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

// ListScores handles GET /api/scores.
//
//	@Summary		List scores with optional filter criteria
//	@Tags			scores
//	@Produce		json
//	@Param			title			query		string	false	"Title substring (case-insensitive)"
//	@Param			composer		query		string	false	"Composer substring (case-insensitive)"
//	@Param			category		query		string	false	"Category or full category (case-insensitive exact)"
//	@Param			timeSignature	query		string	false	"Time signature (exact)"
//	@Param			tempo			query		string	false	"Tempo (exact)"
//	@Param			keySignature	query		string	false	"Key signature (exact)"
//	@Success		200				{object}	ScoreListResponse
//	@Router			/scores [get]
func (h *Handler) ListScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Title:         q.Get("title"),
		Composer:      q.Get("composer"),
		Category:      q.Get("category"),
		TimeSignature: q.Get("timeSignature"),
		Tempo:         q.Get("tempo"),
		KeySignature:  q.Get("keySignature"),
	}

	scores, err := h.cat.Find(r.Context(), f)
	if err != nil {
		slog.Error("list scores failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ScoreListResponse{Scores: scores, Total: len(scores)})
}

// GetScore handles GET /api/scores/*.
//
//	@Summary		Get a single score by path
//	@Tags			scores
//	@Produce		json
//	@Param			path	path		string	true	"Score path"
//	@Success		200		{object}	Score
//	@Failure		404		{object}	errResponse
//	@Router			/scores/{path} [get]
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	path := scorePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	s, err := h.cat.ByPath(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get score failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("ETag", `"`+s.Checksum+`"`)
	writeJSON(w, http.StatusOK, s)
}

// Categories handles GET /api/categories.
//
//	@Summary		List distinct categories, sorted
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	StringListResponse
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	values, err := h.cat.Categories(r.Context())
	if err != nil {
		slog.Error("categories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, StringListResponse{Values: nonNilSlice(values)})
}

// Composers handles GET /api/composers.
//
//	@Summary		List distinct composers, sorted
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	StringListResponse
//	@Router			/composers [get]
func (h *Handler) Composers(w http.ResponseWriter, r *http.Request) {
	values, err := h.cat.Composers(r.Context())
	if err != nil {
		slog.Error("composers failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, StringListResponse{Values: nonNilSlice(values)})
}

// SearchTitles handles GET /api/search/titles.
//
//	@Summary		Search scores by title substring
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	ScoreListResponse
//	@Failure		400	{object}	errResponse
//	@Router			/search/titles [get]
func (h *Handler) SearchTitles(w http.ResponseWriter, r *http.Request) {
	h.searchWith(w, r, h.cat.SearchByTitle)
}

// SearchComposers handles GET /api/search/composers.
//
//	@Summary		Search scores by composer substring
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	ScoreListResponse
//	@Failure		400	{object}	errResponse
//	@Router			/search/composers [get]
func (h *Handler) SearchComposers(w http.ResponseWriter, r *http.Request) {
	h.searchWith(w, r, h.cat.SearchByComposer)
}

func (h *Handler) searchWith(w http.ResponseWriter, r *http.Request,
	search func(ctx context.Context, query string) ([]score.Score, error),
) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	scores, err := search(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ScoreListResponse{Scores: scores, Total: len(scores)})
}

// Reload handles POST /api/catalog/reload.
//
//	@Summary		Discard the catalog and rescan the library
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ReloadResponse
//	@Router			/catalog/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	scores, err := h.cat.Reload(r.Context())
	if err != nil {
		slog.Error("reload failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Scores: len(scores)})
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
