package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"patternbook/internal/catalog"

	"github.com/go-chi/chi/v5"
)

// PatternResponse is the payload of the single-pattern route.
type PatternResponse struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	URL      string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /patterns
func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.Scan()
	if err != nil {
		s.logger.Error("Pattern scan failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondEntries(w, entries)
}

// GET /patterns/search?q=...
func (s *Server) handleSearchPatterns(w http.ResponseWriter, r *http.Request) {
	// An empty q is a valid query (full catalog); a missing one is not.
	values, ok := r.URL.Query()["q"]
	if !ok || len(values) == 0 {
		s.respondError(w, http.StatusBadRequest, "missing required query parameter: q")
		return
	}

	entries, err := s.catalog.Search(values[0])
	if err != nil {
		s.logger.Error("Pattern search failed", "query", values[0], "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondEntries(w, entries)
}

// GET /patterns/category/{category}
func (s *Server) handleListCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	entries, err := s.catalog.ByCategory(category)
	if err != nil {
		s.logger.Error("Category listing failed", "category", category, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondEntries(w, entries)
}

// GET /patterns/{category}/{name}
func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	content, err := s.catalog.Read(category, name)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("pattern not found: %s/%s", category, name))
		case errors.Is(err, catalog.ErrInvalidKey):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("Pattern read failed", "category", category, "name", name, "error", err)
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, PatternResponse{
		Category: category,
		Name:     name,
		Content:  content,
		URL:      s.patternURL(category, name),
	})
}

func (s *Server) patternURL(category, name string) string {
	base := strings.TrimSuffix(s.config.BaseURL, "/")
	return fmt.Sprintf("%s/patterns/%s/%s", base, category, name)
}

func (s *Server) respondEntries(w http.ResponseWriter, entries []catalog.Entry) {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
