package external

import (
	"context"

	"cinedesk/internal/domain/models"
)

// MovieClient defines the interface for remote movie metadata APIs.
// Implementations include TMDB.
type MovieClient interface {
	// SearchMovies returns one page of movies matching query. page starts at 1.
	SearchMovies(ctx context.Context, query string, page int) (*models.MovieSearchPage, error)

	// GetMovieDetails fetches a single movie.
	// Returns domain.ErrNotFound if the movie does not exist.
	GetMovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error)
}
