package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

type MovieDetails struct {
	Movie
	Runtime int `json:"runtime"`
	Genres  []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type Credits struct {
	ID   int64 `json:"id"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type PagedResponse struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

func New(apiKey, base string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// ErrNotFound is returned when TMDb does not know the requested id.
var ErrNotFound = fmt.Errorf("tmdb: not found")

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*PagedResponse, error) {
	var out PagedResponse
	params := map[string]string{"query": query}
	if page > 0 {
		params["page"] = fmt.Sprint(page)
	}
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (*MovieDetails, error) {
	var out MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCredits(ctx context.Context, id int64) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendingMovies gets trending movies for a given window (day|week) and page.
func (c *Client) TrendingMovies(ctx context.Context, window string, page int) (*PagedResponse, error) {
	if window == "" {
		window = "day"
	}
	var out PagedResponse
	params := map[string]string{}
	if page > 0 {
		params["page"] = fmt.Sprint(page)
	}
	if err := c.get(ctx, "/trending/movie/"+window, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*PagedResponse, error) {
	var out PagedResponse
	params := map[string]string{}
	if page > 0 {
		params["page"] = fmt.Sprint(page)
	}
	if err := c.get(ctx, "/movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Director extracts the directing credit, if present.
func (cr *Credits) Director() string {
	for _, member := range cr.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}
