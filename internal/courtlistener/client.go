// Package courtlistener is a thin client for the CourtListener REST API.
package courtlistener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blakeox/courtlistener-mcp-sub006/pkg/models"
)

// Client calls the CourtListener REST API.
type Client interface {
	SearchOpinions(ctx context.Context, query string, court string, page int) (*models.SearchResults, error)
	Opinion(ctx context.Context, id int) (*models.Opinion, error)
	Docket(ctx context.Context, id int) (*models.Docket, error)
}

type httpClient struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewClient creates a Client for the given API root. The token is optional;
// anonymous requests are rate-limited more aggressively by the API.
func NewClient(cfg models.CourtListenerConfig) Client {
	return &httpClient{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// SearchOpinions runs a full-text opinion search, optionally restricted to a
// court, returning one page of results.
func (c *httpClient) SearchOpinions(ctx context.Context, query string, court string, page int) (*models.SearchResults, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "o")
	if court != "" {
		params.Set("court", court)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var results models.SearchResults
	if err := c.get(ctx, "/search/?"+params.Encode(), &results); err != nil {
		return nil, fmt.Errorf("searching opinions: %w", err)
	}
	return &results, nil
}

// Opinion fetches a single opinion by ID.
func (c *httpClient) Opinion(ctx context.Context, id int) (*models.Opinion, error) {
	var opinion models.Opinion
	if err := c.get(ctx, fmt.Sprintf("/opinions/%d/", id), &opinion); err != nil {
		return nil, fmt.Errorf("fetching opinion %d: %w", id, err)
	}
	return &opinion, nil
}

// Docket fetches a single docket by ID.
func (c *httpClient) Docket(ctx context.Context, id int) (*models.Docket, error) {
	var docket models.Docket
	if err := c.get(ctx, fmt.Sprintf("/dockets/%d/", id), &docket); err != nil {
		return nil, fmt.Errorf("fetching docket %d: %w", id, err)
	}
	return &docket, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Token "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
