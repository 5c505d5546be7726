// Package client talks to the catalog API. Every text field it returns has
// already been HTML-neutralized.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"songfinder/internal/catalog"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// Client fetches songs from the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL. A nil httpClient gets one
// with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListActive fetches the full active catalog.
func (c *Client) ListActive(ctx context.Context) ([]catalog.Song, error) {
	return c.get(ctx, "/api/songs", nil)
}

// Search fetches the active songs matching filter.
func (c *Client) Search(ctx context.Context, filter catalog.Filter) ([]catalog.Song, error) {
	params := url.Values{}
	if filter.Term != "" {
		params.Set("q", filter.Term)
	}
	if len(filter.Genres) > 0 {
		params.Set("genres", strings.Join(filter.Genres, ","))
	}
	return c.get(ctx, "/api/songs/search", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]catalog.Song, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", catalog.ErrQueryFailure, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: %s", catalog.ErrQueryFailure, path, apiError(resp))
	}

	var rows []wireSong
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", catalog.ErrQueryFailure, path, err)
	}

	songs := make([]catalog.Song, len(rows))
	for i, row := range rows {
		songs[i] = row.song()
	}
	return songs, nil
}

// apiError describes a non-2xx response, preferring the API's error message.
func apiError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
