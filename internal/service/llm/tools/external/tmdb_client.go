package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"
)

const (
	// DefaultTMDBBaseURL is the default TMDB v3 API endpoint
	DefaultTMDBBaseURL = "https://api.themoviedb.org/3"
	// DefaultTMDBTimeout is the default HTTP timeout for TMDB requests
	DefaultTMDBTimeout = 30 * time.Second

	tmdbService  = "tmdb"
	tmdbLanguage = "en-US"
)

// TMDBClient implements MovieClient for The Movie Database.
type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTMDBClient creates a new TMDB client.
func NewTMDBClient(apiKey string) *TMDBClient {
	return NewTMDBClientWithConfig(apiKey, DefaultTMDBBaseURL, DefaultTMDBTimeout)
}

// NewTMDBClientWithConfig creates a TMDB client with custom configuration.
func NewTMDBClientWithConfig(apiKey string, baseURL string, timeout time.Duration) *TMDBClient {
	if baseURL == "" {
		baseURL = DefaultTMDBBaseURL
	}
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchMovies implements MovieClient interface for TMDB.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*models.MovieSearchPage, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	params.Set("language", tmdbLanguage)

	var resp tmdbSearchResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	// Convert to common format
	results := make([]models.Movie, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = models.Movie{
			ID:          r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Overview:    r.Overview,
		}
	}

	return &models.MovieSearchPage{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      results,
	}, nil
}

// GetMovieDetails implements MovieClient interface for TMDB.
func (c *TMDBClient) GetMovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error) {
	params := url.Values{}
	params.Set("language", tmdbLanguage)

	var resp tmdbMovieDetails
	path := "/movie/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, g.Name)
	}

	return &models.MovieDetails{
		Movie: models.Movie{
			ID:          resp.ID,
			Title:       resp.Title,
			ReleaseDate: resp.ReleaseDate,
			Overview:    resp.Overview,
		},
		Genres:  genres,
		Runtime: resp.Runtime,
	}, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &domain.UpstreamError{Service: tmdbService, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UpstreamError{Service: tmdbService, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.UpstreamError{Service: tmdbService, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Message: "movie not found"}
	case resp.StatusCode != http.StatusOK:
		return &domain.UpstreamError{
			Service: tmdbService,
			Message: fmt.Sprintf("API error (status %d): %s", resp.StatusCode, tmdbStatusMessage(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.UpstreamError{Service: tmdbService, Message: fmt.Sprintf("failed to parse response: %v", err)}
	}
	return nil
}

// tmdbStatusMessage extracts status_message from a TMDB error body,
// falling back to the raw body.
func tmdbStatusMessage(body []byte) string {
	var status struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &status); err == nil && status.StatusMessage != "" {
		return status.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

// tmdbSearchResponse represents the response from /search/movie
type tmdbSearchResponse struct {
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Results      []tmdbResult `json:"results"`
}

// tmdbResult represents a single search result from TMDB
type tmdbResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

// tmdbMovieDetails represents the response from /movie/{id}
type tmdbMovieDetails struct {
	tmdbResult
	Runtime int `json:"runtime"`
	Genres  []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}
