package models

// Movie is a search hit from the remote movie metadata service.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

// MovieDetails is the full record for a single movie.
type MovieDetails struct {
	Movie
	Genres  []string `json:"genres"`
	Runtime int      `json:"runtime"` // minutes, 0 when unknown
}

// MovieSearchPage is one page of search results.
type MovieSearchPage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}
