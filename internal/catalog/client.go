package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Store defines the catalog read/write operations the sweep engine consumes.
type Store interface {
	Items(ctx context.Context, query ItemsQuery) (ItemsResult, error)
	UpdateItem(ctx context.Context, item Item) error
}

// Client talks to a Jellyfin-compatible media server API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default retrying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient creates a catalog client. Requests retry on transient failures;
// both reads and metadata updates are idempotent on the server side.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("catalog api key required")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 30 * time.Second

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: retryClient.StandardClient(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type itemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Items lists catalog items matching the query. The listing is always
// recursive and always requests the external-id and tag fields the sweep
// needs.
func (c *Client) Items(ctx context.Context, query ItemsQuery) (ItemsResult, error) {
	endpoint, err := url.Parse(c.baseURL + "/Items")
	if err != nil {
		return ItemsResult{}, fmt.Errorf("parse catalog url: %w", err)
	}

	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("Fields", "ProviderIds,Tags")
	if len(query.Kinds) > 0 {
		params.Set("IncludeItemTypes", strings.Join(query.Kinds, ","))
	}
	if query.Tag != "" {
		params.Set("Tags", query.Tag)
	}
	if query.NameFilter != "" {
		params.Set("SearchTerm", query.NameFilter)
	}
	if query.StartIndex > 0 {
		params.Set("StartIndex", strconv.Itoa(query.StartIndex))
	}
	if query.Limit > 0 {
		params.Set("Limit", strconv.Itoa(query.Limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return ItemsResult{}, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ItemsResult{}, fmt.Errorf("list items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ItemsResult{}, fmt.Errorf("catalog items returned %d", resp.StatusCode)
	}

	var payload itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ItemsResult{}, fmt.Errorf("decode items response: %w", err)
	}
	return ItemsResult{Items: payload.Items, Total: payload.TotalRecordCount}, nil
}

// UpdateItem writes the item's metadata back to the server. The server
// treats the write as idempotent: posting an unchanged tag set is a no-op.
func (c *Client) UpdateItem(ctx context.Context, item Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return errors.New("item id must not be empty")
	}

	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	endpoint := fmt.Sprintf("%s/Items/%s", c.baseURL, url.PathEscape(item.ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("catalog update returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("X-Emby-Token", c.apiKey)
}
