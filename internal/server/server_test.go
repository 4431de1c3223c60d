package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/query"
)

// stubEngine records the last call and returns canned results.
type stubEngine struct {
	bucket mood.Bucket
	text   string
	n      int
	recs   []query.Recommendation
	err    error
}

func (e *stubEngine) Recommend(b mood.Bucket, text string, n int) ([]query.Recommendation, error) {
	e.bucket, e.text, e.n = b, text, n
	return e.recs, e.err
}

func TestHealth(t *testing.T) {
	s := New(Config{}, &stubEngine{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRecommend(t *testing.T) {
	engine := &stubEngine{recs: []query.Recommendation{
		{Title: "Blue Skies", Artist: "Irving Berlin", Score: 2.5},
	}}
	s := New(Config{Results: 7}, engine)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recommend?mood=4&q=blue+skies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body recommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Mood != 4 || body.Label != "happy" {
		t.Errorf("mood = %d %q, want 4 happy", body.Mood, body.Label)
	}
	if len(body.Results) != 1 || body.Results[0].Artist != "Irving Berlin" {
		t.Errorf("results = %+v", body.Results)
	}

	if engine.bucket != mood.Good || engine.text != "blue skies" || engine.n != 7 {
		t.Errorf("engine called with (%d, %q, %d), want (4, \"blue skies\", 7)", engine.bucket, engine.text, engine.n)
	}
}

func TestRecommend_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		engineErr  error
		wantStatus int
	}{
		{"missing mood", "/recommend?q=blue", nil, http.StatusBadRequest},
		{"mood out of range", "/recommend?mood=9&q=blue", nil, http.StatusBadRequest},
		{"bad n", "/recommend?mood=3&q=blue&n=abc", nil, http.StatusBadRequest},
		{"n too large", "/recommend?mood=3&q=blue&n=1000", nil, http.StatusBadRequest},
		{"empty query", "/recommend?mood=3&q=", query.ErrEmptyQuery, http.StatusBadRequest},
		{"engine failure", "/recommend?mood=3&q=blue", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{}, &stubEngine{err: tt.engineErr})

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestRecommend_MethodNotAllowed(t *testing.T) {
	s := New(Config{}, &stubEngine{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recommend?mood=3&q=x", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
