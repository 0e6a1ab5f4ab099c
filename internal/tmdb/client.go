package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Content type values understood by the watch/providers endpoint.
const (
	ContentTypeMovie = "movie"
	ContentTypeTV    = "tv"
)

// Provider is a single watch-provider entry in a TMDB region listing.
type Provider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// Region holds the per-country availability sub-lists. Any of the three lists
// may be absent from the response; absent lists decode to nil and contribute
// nothing.
type Region struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
}

// availabilityResponse models the watch/providers payload keyed by region.
type availabilityResponse struct {
	ID      int64             `json:"id"`
	Results map[string]Region `json:"results"`
}

// AvailabilityFetcher defines the lookup operation the sweep engine consumes.
type AvailabilityFetcher interface {
	Availability(ctx context.Context, contentType, externalID string) ([]int, error)
}

// Disabled is the fetcher used when no API key is configured. It reports no
// availability for every item.
type Disabled struct{}

func (Disabled) Availability(context.Context, string, string) ([]int, error) {
	return nil, nil
}

// Client provides access to the TMDB watch-provider availability API.
type Client struct {
	apiKey     string
	baseURL    string
	region     string
	httpClient *http.Client
}

var _ AvailabilityFetcher = (*Client)(nil)

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

// New creates a TMDB availability client for one region.
func New(apiKey, baseURL, region string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return nil, errors.New("tmdb region required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		region:     region,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Region returns the region code availability is read for.
func (c *Client) Region() string {
	return c.region
}

// Availability fetches the watch-provider IDs active for one item in the
// configured region. Subscription, rental, and purchase listings are unioned
// into a single deduplicated set. A response that lacks the region yields an
// empty set without error; transport failures and non-200 statuses are
// returned as errors for the caller to log.
func (c *Client) Availability(ctx context.Context, contentType, externalID string) ([]int, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, errors.New("external id must not be empty")
	}
	switch contentType {
	case ContentTypeMovie, ContentTypeTV:
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/%s/%s/watch/providers", c.baseURL, contentType, url.PathEscape(externalID)))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb watch providers returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}

	region, ok := payload.Results[c.region]
	if !ok {
		return nil, nil
	}
	return unionProviderIDs(region), nil
}

// unionProviderIDs merges the region sub-lists, keeping first-seen order and
// dropping duplicates.
func unionProviderIDs(region Region) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, list := range [][]Provider{region.Flatrate, region.Rent, region.Buy} {
		for _, provider := range list {
			if _, dup := seen[provider.ProviderID]; dup {
				continue
			}
			seen[provider.ProviderID] = struct{}{}
			ids = append(ids, provider.ProviderID)
		}
	}
	return ids
}
