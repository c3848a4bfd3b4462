package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the title is absent from the remote catalog.
	// Callers must not conflate this with a local catalog miss or with a
	// transport failure.
	ErrNotFound = errors.New("title not found in OMDb")

	// ErrInvalidID indicates OMDb rejected the identifier itself.
	ErrInvalidID = errors.New("omdb rejected the IMDb ID")

	// ErrInvalidAPIKey indicates the configured API key was rejected.
	ErrInvalidAPIKey = errors.New("omdb rejected the API key")
)

// TitleData is the loosely-typed payload for one title, keyed the way OMDb
// keys it (Title, Year, Director, ...). Non-string fields of the raw
// response, such as the Ratings array, are dropped.
type TitleData map[string]string

// SearchResult is a single row of an OMDb search page.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchResponse is a page of search matches.
type SearchResponse struct {
	Results      []SearchResult
	TotalResults int
}

// Lookup defines the OMDb operations consumed by the session driver.
type Lookup interface {
	ByIMDbID(ctx context.Context, imdbID string) (TitleData, error)
	ByTitle(ctx context.Context, name string) (TitleData, error)
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Lookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ByIMDbID fetches full title data for one IMDb identifier.
func (c *Client) ByIMDbID(ctx context.Context, imdbID string) (TitleData, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	params := url.Values{}
	params.Set("i", imdbID)
	return c.fetchTitle(ctx, params)
}

// ByTitle fetches full title data for an exact name match.
func (c *Client) ByTitle(ctx context.Context, name string) (TitleData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("title name must not be empty")
	}
	params := url.Values{}
	params.Set("t", name)
	return c.fetchTitle(ctx, params)
}

// Search returns a page of titles matching a substring.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("s", query)

	var payload struct {
		Search       []SearchResult `json:"Search"`
		TotalResults string         `json:"totalResults"`
		Response     string         `json:"Response"`
		Error        string         `json:"Error"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if !strings.EqualFold(payload.Response, "True") {
		return nil, classifyError(payload.Error)
	}

	total, _ := strconv.Atoi(payload.TotalResults)
	return &SearchResponse{Results: payload.Search, TotalResults: total}, nil
}

func (c *Client) fetchTitle(ctx context.Context, params url.Values) (TitleData, error) {
	var payload map[string]any
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	if response, _ := payload["Response"].(string); !strings.EqualFold(response, "True") {
		msg, _ := payload["Error"].(string)
		return nil, classifyError(msg)
	}

	data := make(TitleData, len(payload))
	for key, value := range payload {
		if s, ok := value.(string); ok {
			data[key] = s
		}
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return fmt.Errorf("parse omdb url: %w", err)
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	// OMDb signals invalid keys with 401 and everything else as a 200 with
	// Response=False in the body.
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidAPIKey
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode omdb response: %w", err)
	}
	return nil
}

func classifyError(message string) error {
	lowered := strings.ToLower(message)
	switch {
	case strings.Contains(lowered, "not found"):
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case strings.Contains(lowered, "incorrect imdb id"):
		return fmt.Errorf("%w: %s", ErrInvalidID, message)
	case strings.Contains(lowered, "invalid api key"):
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, message)
	case message == "":
		return errors.New("omdb reported failure without a message")
	default:
		return fmt.Errorf("omdb error: %s", message)
	}
}
