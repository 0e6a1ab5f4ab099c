package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Service defines the collection operations the sweep engine consumes. The
// batched AddMembers call must accept already-present member IDs without
// erroring (idempotent union).
type Service interface {
	FindByName(ctx context.Context, name string) (string, bool, error)
	Create(ctx context.Context, name string) (string, error)
	AddMembers(ctx context.Context, collectionID string, itemIDs []string) error
}

// HTTPService manages collections on a Jellyfin-compatible media server.
type HTTPService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Service = (*HTTPService)(nil)

// Option configures an HTTPService.
type Option func(*HTTPService)

// WithHTTPClient overrides the default retrying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewHTTPService creates a collection service client.
func NewHTTPService(baseURL, apiKey string, opts ...Option) (*HTTPService, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("collections base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("collections api key required")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 30 * time.Second

	service := &HTTPService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: retryClient.StandardClient(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

type boxSetListing struct {
	Items []struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"Items"`
}

// FindByName looks up an existing collection by exact name. When the server
// holds several collections with the same name the first listed wins.
func (s *HTTPService) FindByName(ctx context.Context, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, errors.New("collection name must not be empty")
	}

	endpoint, err := url.Parse(s.baseURL + "/Items")
	if err != nil {
		return "", false, fmt.Errorf("parse collections url: %w", err)
	}
	params := url.Values{}
	params.Set("IncludeItemTypes", "BoxSet")
	params.Set("Recursive", "true")
	params.Set("SearchTerm", name)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("find collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("collection lookup returned %d", resp.StatusCode)
	}

	var payload boxSetListing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("decode collection listing: %w", err)
	}

	// SearchTerm is fuzzy on the server side; require an exact name match.
	for _, item := range payload.Items {
		if item.Name == name {
			return item.ID, true, nil
		}
	}
	return "", false, nil
}

// Create makes a new empty collection and returns its identifier.
func (s *HTTPService) Create(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("collection name must not be empty")
	}

	endpoint, err := url.Parse(s.baseURL + "/Collections")
	if err != nil {
		return "", fmt.Errorf("parse collections url: %w", err)
	}
	params := url.Values{}
	params.Set("Name", name)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("collection create returned %d", resp.StatusCode)
	}

	var payload struct {
		ID string `json:"Id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode collection create response: %w", err)
	}
	if payload.ID == "" {
		return "", errors.New("collection create response missing id")
	}
	return payload.ID, nil
}

// AddMembers issues one batched add for the given item IDs.
func (s *HTTPService) AddMembers(ctx context.Context, collectionID string, itemIDs []string) error {
	if strings.TrimSpace(collectionID) == "" {
		return errors.New("collection id must not be empty")
	}
	if len(itemIDs) == 0 {
		return nil
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/Collections/%s/Items", s.baseURL, url.PathEscape(collectionID)))
	if err != nil {
		return fmt.Errorf("parse collections url: %w", err)
	}
	params := url.Values{}
	params.Set("Ids", strings.Join(itemIDs, ","))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("add collection members: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("collection add returned %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPService) authorize(req *http.Request) {
	req.Header.Set("X-Emby-Token", s.apiKey)
}
