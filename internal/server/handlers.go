package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/query"
)

// recommendResponse is the body of a successful /recommend call.
type recommendResponse struct {
	Mood    int                    `json:"mood"`
	Label   string                 `json:"label"`
	Results []query.Recommendation `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	b, err := mood.Parse(params.Get("mood"))
	if err != nil {
		writeError(w, http.StatusBadRequest, query.ErrInvalidMood)
		return
	}

	n := s.results
	if raw := params.Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxResults {
			writeError(w, http.StatusBadRequest, errors.New("n must be a number between 1 and 100"))
			return
		}
	}

	recs, err := s.engine.Recommend(b, params.Get("q"), n)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, query.ErrInvalidMood) || errors.Is(err, query.ErrEmptyQuery) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Mood:    int(b),
		Label:   b.Label(),
		Results: recs,
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
