// Package itunes provides a client for the iTunes Search API.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultBaseURL = "https://itunes.apple.com/search"

// maxResults is the upper bound the preview pipeline ever needs; one
// matching candidate is enough and a larger page just slows the lookup.
const maxResults = 5

// Client is an iTunes Search API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents iTunes client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Result represents a single search result. Any field may be empty.
type Result struct {
	PreviewURL     string `json:"previewUrl"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
}

// searchResponse represents the response body of the search endpoint.
type searchResponse struct {
	ResultCount int      `json:"resultCount"`
	Results     []Result `json:"results"`
}

// New creates a new iTunes client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search queries the music catalog for the given free-text term and
// returns up to limit results in upstream order.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Result, error) {
	if term == "" {
		return nil, errors.New("search term is required")
	}

	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("limit", fmt.Sprintf("%d", limit))

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("itunes API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	return response.Results, nil
}

// truncate shortens s for log/error output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
