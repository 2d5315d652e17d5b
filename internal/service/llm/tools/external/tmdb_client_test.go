package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinedesk/internal/domain"
)

func newTestTMDB(t *testing.T, handler http.HandlerFunc) *TMDBClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTMDBClientWithConfig("test-key", server.URL, 5*time.Second)
}

func TestTMDBClient_SearchMovies(t *testing.T) {
	client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path = %q, want /search/movie", r.URL.Path)
		}
		q := r.URL.Query()
		checks := map[string]string{
			"query":         "inception",
			"page":          "1",
			"include_adult": "false",
			"language":      "en-US",
		}
		for key, want := range checks {
			if got := q.Get(key); got != want {
				t.Errorf("query param %s = %q, want %q", key, got, want)
			}
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Errorf("accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 1, "total_pages": 1, "total_results": 2,
			"results": [
				{"id": 27205, "title": "Inception", "release_date": "2010-07-15", "overview": "A thief..."},
				{"id": 64956, "title": "Inception: The Cobol Job", "release_date": "", "overview": ""}
			]
		}`))
	})

	page, err := client.SearchMovies(context.Background(), "inception", 0)
	if err != nil {
		t.Fatalf("SearchMovies() error = %v", err)
	}
	if page.TotalResults != 2 || len(page.Results) != 2 {
		t.Fatalf("got %d results (total %d), want 2", len(page.Results), page.TotalResults)
	}
	if page.Results[0].ID != 27205 || page.Results[0].Title != "Inception" {
		t.Errorf("first result = %+v", page.Results[0])
	}
}

func TestTMDBClient_GetMovieDetails(t *testing.T) {
	client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205" {
			t.Errorf("path = %q, want /movie/27205", r.URL.Path)
		}
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("language = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"id": 27205, "title": "Inception", "release_date": "2010-07-15",
			"overview": "A thief...", "runtime": 148,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	})

	details, err := client.GetMovieDetails(context.Background(), 27205)
	if err != nil {
		t.Fatalf("GetMovieDetails() error = %v", err)
	}
	if details.Runtime != 148 {
		t.Errorf("Runtime = %d, want 148", details.Runtime)
	}
	if len(details.Genres) != 2 || details.Genres[1] != "Science Fiction" {
		t.Errorf("Genres = %v", details.Genres)
	}
}

func TestTMDBClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		contains string
	}{
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"status_code": 34, "status_message": "The resource you requested could not be found."}`,
			sentinel: domain.ErrNotFound,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"status_code": 7, "status_message": "Invalid API key"}`,
			sentinel: domain.ErrUpstream,
			contains: "Invalid API key",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `oops`,
			sentinel: domain.ErrUpstream,
			contains: "status 500",
		},
		{
			name:     "malformed body",
			status:   http.StatusOK,
			body:     `{not json`,
			sentinel: domain.ErrUpstream,
			contains: "failed to parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetMovieDetails(context.Background(), 1)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestTMDBClient_ContextCancelled(t *testing.T) {
	client := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchMovies(ctx, "anything", 1)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("error = %v, want upstream error", err)
	}
}
