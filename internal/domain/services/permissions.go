package services

import "context"

// PermissionChecker asks an external authorization service whether a
// subject may perform action on resource.
//
// A false decision is a denial; a non-nil error means the service itself
// could not answer.
type PermissionChecker interface {
	Check(ctx context.Context, subject, resource, action string) (bool, error)
}

// Resource and actions used for movie discovery checks
const (
	ResourceMovieDiscovery = "movie_discovery"
	ActionSearchMovies     = "search_movies"
	ActionGetMovieDetails  = "get_movie_details"
)
