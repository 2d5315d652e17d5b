package tools

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
	"cinedesk/internal/domain/services"
	"cinedesk/internal/service/llm/tools/external"
)

// Movie tool names double as permission actions
const (
	ToolSearchMovies    = services.ActionSearchMovies
	ToolGetMovieDetails = services.ActionGetMovieDetails
)

const (
	movieFieldDefault = "N/A"
	noOverview        = "No overview available."
	msgNoMovies       = "No movies found matching your query."
	msgMovieNotFound  = "Movie not found"
)

type searchMoviesArgs struct {
	Query string `json:"query" jsonschema:"required,description=Search term to look for in movie titles"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of movies to return,default=5,minimum=1,maximum=20"`
}

type movieIDArgs struct {
	MovieID int64 `json:"movie_id" jsonschema:"required,description=TMDB id of the movie"`
}

// movieTool gates every remote call behind a permission check.
type movieTool struct {
	toolSpec
	client external.MovieClient
	perms  services.PermissionChecker
	config *ToolConfig
	logger *slog.Logger

	denied string // message returned when the check is denied
}

// authorize resolves the caller and checks the tool's action on movie_discovery.
// A non-nil payload means the call must stop and return it.
func (t *movieTool) authorize(ctx context.Context) (int64, map[string]interface{}) {
	userID, errPayload := caller(ctx)
	if errPayload != nil {
		return 0, errPayload
	}

	allowed, err := t.perms.Check(ctx, strconv.FormatInt(userID, 10), services.ResourceMovieDiscovery, t.name)
	if err != nil {
		t.logger.ErrorContext(ctx, "permission check failed", "tool", t.name, "user_id", userID, "error", err)
		return 0, ErrorResult(KindDownstream, "Permission check failed: "+err.Error())
	}
	if !allowed {
		t.logger.InfoContext(ctx, "permission denied", "tool", t.name, "user_id", userID)
		return 0, ErrorResult(KindForbidden, t.denied)
	}
	return userID, nil
}

// SearchMoviesTool implements 'search_movies'.
type SearchMoviesTool struct{ movieTool }

// NewSearchMoviesTool creates a new SearchMoviesTool instance.
func NewSearchMoviesTool(client external.MovieClient, perms services.PermissionChecker, config *ToolConfig, logger *slog.Logger) *SearchMoviesTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &SearchMoviesTool{movieTool{
		toolSpec: toolSpec{
			name:        ToolSearchMovies,
			description: "Search for movies by title or keyword on TMDB.",
			schema:      SchemaFor[searchMoviesArgs](),
		},
		client: client,
		perms:  perms,
		config: config,
		logger: logger,
		denied: "User does not have permission to search movies.",
	}}
}

// Execute implements ToolExecutor interface.
// Input parameters:
//   - query (string, required)
//   - limit (integer, optional): defaults to 5, clamped to 20
//
// Returns:
//   - {success, movies: [{id, title, release_date, overview}][, message]}
func (t *SearchMoviesTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	query, _ := stringArg(input, "query")
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrorResult(KindInvalidArgument, "query is required"), nil
	}

	userID, errPayload := t.authorize(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	limit := limitArg(input, t.config.MovieDefaultLimit, t.config.MovieMaxLimit)
	page, err := t.client.SearchMovies(ctx, query, 1)
	if err != nil {
		t.logger.ErrorContext(ctx, "movie search failed", "tool", t.name, "user_id", userID, "error", err)
		return ErrorResult(KindDownstream, "Error searching movies: "+err.Error()), nil
	}

	results := page.Results
	if len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		return SuccessResult(map[string]interface{}{
			"movies":  []map[string]interface{}{},
			"message": msgNoMovies,
		}), nil
	}

	movies := make([]map[string]interface{}, len(results))
	for i, m := range results {
		movies[i] = movieFields(m)
	}
	return SuccessResult(map[string]interface{}{"movies": movies}), nil
}

// GetMovieDetailsTool implements 'get_movie_details'.
type GetMovieDetailsTool struct{ movieTool }

// NewGetMovieDetailsTool creates a new GetMovieDetailsTool instance.
func NewGetMovieDetailsTool(client external.MovieClient, perms services.PermissionChecker, config *ToolConfig, logger *slog.Logger) *GetMovieDetailsTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &GetMovieDetailsTool{movieTool{
		toolSpec: toolSpec{
			name:        ToolGetMovieDetails,
			description: "Get details (genres, runtime, overview) of a single movie by its TMDB id.",
			schema:      SchemaFor[movieIDArgs](),
		},
		client: client,
		perms:  perms,
		config: config,
		logger: logger,
		denied: "User does not have permission to get movie details.",
	}}
}

// Execute implements ToolExecutor interface.
// Returns {success, id, title, release_date, overview, genres, runtime}.
func (t *GetMovieDetailsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	movieID, ok := positiveID(input, "movie_id")
	if !ok {
		return ErrorResult(KindInvalidArgument, "movie_id must be a positive integer"), nil
	}

	userID, errPayload := t.authorize(ctx)
	if errPayload != nil {
		return errPayload, nil
	}

	movie, err := t.client.GetMovieDetails(ctx, movieID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrorResult(KindNotFound, msgMovieNotFound), nil
	}
	if err != nil {
		t.logger.ErrorContext(ctx, "movie details failed", "tool", t.name, "user_id", userID, "error", err)
		return ErrorResult(KindDownstream, "Error fetching movie details: "+err.Error()), nil
	}

	result := movieFields(movie.Movie)
	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}
	result["genres"] = genres
	if movie.Runtime > 0 {
		result["runtime"] = movie.Runtime
	} else {
		result["runtime"] = movieFieldDefault
	}
	return SuccessResult(result), nil
}

// NewMovieTools returns both movie tools.
func NewMovieTools(client external.MovieClient, perms services.PermissionChecker, config *ToolConfig, logger *slog.Logger) []Tool {
	return []Tool{
		NewSearchMoviesTool(client, perms, config, logger),
		NewGetMovieDetailsTool(client, perms, config, logger),
	}
}

func movieFields(m models.Movie) map[string]interface{} {
	return map[string]interface{}{
		"id":           m.ID,
		"title":        orDefault(m.Title, movieFieldDefault),
		"release_date": orDefault(m.ReleaseDate, movieFieldDefault),
		"overview":     orDefault(m.Overview, noOverview),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
