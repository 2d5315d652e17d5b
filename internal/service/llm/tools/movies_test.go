package tools

import (
	"context"
	"errors"
	"testing"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
)

// fakeMovies is an in-memory MovieClient.
type fakeMovies struct {
	results []models.Movie
	details map[int64]*models.MovieDetails
	err     error

	calls int
}

func (f *fakeMovies) SearchMovies(ctx context.Context, query string, page int) (*models.MovieSearchPage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.MovieSearchPage{Page: page, TotalPages: 1, TotalResults: len(f.results), Results: f.results}, nil
}

func (f *fakeMovies) GetMovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "movie not found"}
	}
	return d, nil
}

// fakePermissions allows the actions listed in allowed.
type fakePermissions struct {
	allowed map[string]bool
	err     error

	checks []string // "subject resource action"
}

func (f *fakePermissions) Check(ctx context.Context, subject, resource, action string) (bool, error) {
	f.checks = append(f.checks, subject+" "+resource+" "+action)
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[action], nil
}

func allowAll() *fakePermissions {
	return &fakePermissions{allowed: map[string]bool{ToolSearchMovies: true, ToolGetMovieDetails: true}}
}

func runMovieTool(t *testing.T, client *fakeMovies, perms *fakePermissions, name string, input map[string]interface{}) map[string]interface{} {
	t.Helper()
	registry := NewToolRegistryBuilder(discardLogger).WithMovieTools(client, perms).Build()
	tool := registry.Get(name)
	if tool == nil {
		t.Fatalf("tool %q not registered", name)
	}
	out, err := tool.Execute(WithUserID(context.Background(), 42), input)
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	return out.(map[string]interface{})
}

func TestSearchMovies(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "Alien", ReleaseDate: "1979-05-25", Overview: "In space..."},
		{ID: 2, Title: "Aliens"},
		{ID: 3, Title: "Alien 3"},
	}

	t.Run("formats results with defaults", func(t *testing.T) {
		perms := allowAll()
		payload := runMovieTool(t, &fakeMovies{results: movies}, perms, ToolSearchMovies, map[string]interface{}{"query": "alien"})
		requireSuccess(t, payload)

		list := payload["movies"].([]map[string]interface{})
		if len(list) != 3 {
			t.Fatalf("got %d movies, want 3", len(list))
		}
		if list[1]["release_date"] != "N/A" || list[1]["overview"] != "No overview available." {
			t.Errorf("defaults not applied: %v", list[1])
		}
		if len(perms.checks) != 1 || perms.checks[0] != "42 movie_discovery search_movies" {
			t.Errorf("checks = %v", perms.checks)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		payload := runMovieTool(t, &fakeMovies{results: movies}, allowAll(), ToolSearchMovies, map[string]interface{}{"query": "alien", "limit": 2})
		if got := len(payload["movies"].([]map[string]interface{})); got != 2 {
			t.Errorf("got %d movies, want 2", got)
		}
	})

	t.Run("no results", func(t *testing.T) {
		payload := runMovieTool(t, &fakeMovies{}, allowAll(), ToolSearchMovies, map[string]interface{}{"query": "zzzz"})
		requireSuccess(t, payload)
		if payload["message"] != "No movies found matching your query." {
			t.Errorf("message = %v", payload["message"])
		}
	})

	t.Run("empty query", func(t *testing.T) {
		client := &fakeMovies{}
		requireKind(t, runMovieTool(t, client, allowAll(), ToolSearchMovies, map[string]interface{}{"query": "  "}), KindInvalidArgument)
		if client.calls != 0 {
			t.Error("client should not be called")
		}
	})

	t.Run("remote failure", func(t *testing.T) {
		client := &fakeMovies{err: &domain.UpstreamError{Service: "tmdb", Message: "timeout"}}
		payload := runMovieTool(t, client, allowAll(), ToolSearchMovies, map[string]interface{}{"query": "alien"})
		requireKind(t, payload, KindDownstream)
		if payload["error"] != "Error searching movies: tmdb: timeout" {
			t.Errorf("error = %q", payload["error"])
		}
	})
}

func TestGetMovieDetails(t *testing.T) {
	client := &fakeMovies{details: map[int64]*models.MovieDetails{
		27205: {Movie: models.Movie{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", Overview: "A thief"}, Genres: []string{"Action"}, Runtime: 148},
		9:     {Movie: models.Movie{ID: 9, Title: "Obscure"}},
	}}

	t.Run("found", func(t *testing.T) {
		payload := runMovieTool(t, client, allowAll(), ToolGetMovieDetails, map[string]interface{}{"movie_id": "27205"})
		requireSuccess(t, payload)
		if payload["runtime"] != 148 || payload["title"] != "Inception" {
			t.Errorf("payload = %v", payload)
		}
	})

	t.Run("unknown runtime", func(t *testing.T) {
		payload := runMovieTool(t, client, allowAll(), ToolGetMovieDetails, map[string]interface{}{"movie_id": 9})
		if payload["runtime"] != "N/A" || payload["overview"] != "No overview available." {
			t.Errorf("payload = %v", payload)
		}
	})

	t.Run("missing movie", func(t *testing.T) {
		payload := runMovieTool(t, client, allowAll(), ToolGetMovieDetails, map[string]interface{}{"movie_id": 1})
		requireKind(t, payload, KindNotFound)
		if payload["error"] != "Movie not found" {
			t.Errorf("error = %q", payload["error"])
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		requireKind(t, runMovieTool(t, client, allowAll(), ToolGetMovieDetails, map[string]interface{}{"movie_id": -4}), KindInvalidArgument)
	})
}

func TestMovieTools_PermissionGate(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		input   map[string]interface{}
		perms   *fakePermissions
		kind    ErrorKind
		message string
	}{
		{
			name:    "search denied",
			tool:    ToolSearchMovies,
			input:   map[string]interface{}{"query": "alien"},
			perms:   &fakePermissions{allowed: map[string]bool{ToolGetMovieDetails: true}},
			kind:    KindForbidden,
			message: "User does not have permission to search movies.",
		},
		{
			name:    "details denied",
			tool:    ToolGetMovieDetails,
			input:   map[string]interface{}{"movie_id": 1},
			perms:   &fakePermissions{allowed: map[string]bool{ToolSearchMovies: true}},
			kind:    KindForbidden,
			message: "User does not have permission to get movie details.",
		},
		{
			name:    "permission service down",
			tool:    ToolSearchMovies,
			input:   map[string]interface{}{"query": "alien"},
			perms:   &fakePermissions{err: errors.New("pdp unreachable")},
			kind:    KindDownstream,
			message: "Permission check failed: pdp unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeMovies{results: []models.Movie{{ID: 1, Title: "Alien"}}}
			payload := runMovieTool(t, client, tt.perms, tt.tool, tt.input)
			requireKind(t, payload, tt.kind)
			if payload["error"] != tt.message {
				t.Errorf("error = %q, want %q", payload["error"], tt.message)
			}
			if client.calls != 0 {
				t.Error("movie client called despite failed permission check")
			}
		})
	}
}

func TestMovieTools_NotRegisteredWithoutClient(t *testing.T) {
	registry := NewToolRegistryBuilder(discardLogger).WithMovieTools(nil, allowAll()).Build()
	if registry.Len() != 0 {
		t.Errorf("Len() = %d, want 0", registry.Len())
	}
}
