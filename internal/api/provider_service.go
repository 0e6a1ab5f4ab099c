package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"watchtag/internal/catalog"
	"watchtag/internal/collections"
	"watchtag/internal/providers"
)

// ErrUnknownProvider is returned when a query names a provider rule that is
// not configured.
var ErrUnknownProvider = errors.New("unknown provider")

// ProviderService answers provider and tagged-item queries for the CLI and
// the daemon API.
type ProviderService struct {
	rules       []providers.Rule
	collections collections.Service
	catalog     catalog.Store
}

// NewProviderService builds a ProviderService. The collection service may be
// nil; provider views then omit collection IDs.
func NewProviderService(rules []providers.Rule, cols collections.Service, store catalog.Store) *ProviderService {
	return &ProviderService{rules: rules, collections: cols, catalog: store}
}

// List returns all configured provider rules. For rules that maintain a
// collection, the existing collection ID is resolved by name; rules whose
// collection does not exist yet are listed without one.
func (s *ProviderService) List(ctx context.Context) ([]ProviderView, error) {
	views := make([]ProviderView, 0, len(s.rules))
	for _, rule := range s.rules {
		view := FromRule(rule)
		if rule.CreateCollection && s.collections != nil {
			id, found, err := s.collections.FindByName(ctx, rule.Name)
			if err != nil {
				return nil, fmt.Errorf("resolve collection for %q: %w", rule.Name, err)
			}
			if found {
				view.CollectionID = id
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ItemsQuery selects tagged items for one provider rule.
type ItemsQuery struct {
	Provider   string
	Kinds      []string
	StartIndex int
	Limit      int
}

// Items returns the catalog items tagged for the named provider rule.
func (s *ProviderService) Items(ctx context.Context, query ItemsQuery) (ItemListResponse, error) {
	if s.catalog == nil {
		return ItemListResponse{}, errors.New("catalog store not configured")
	}
	name := strings.TrimSpace(query.Provider)
	rule, ok := providers.FindRule(s.rules, name)
	if !ok {
		return ItemListResponse{}, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	result, err := s.catalog.Items(ctx, catalog.ItemsQuery{
		Kinds:      query.Kinds,
		Tag:        providers.Tag(rule.Name),
		StartIndex: query.StartIndex,
		Limit:      query.Limit,
	})
	if err != nil {
		return ItemListResponse{}, fmt.Errorf("list items for %q: %w", rule.Name, err)
	}

	views := make([]ItemView, 0, len(result.Items))
	for _, item := range result.Items {
		views = append(views, ItemView{
			ID:   item.ID,
			Name: item.Name,
			Kind: item.Kind,
			Tags: item.Tags,
		})
	}
	return ItemListResponse{Items: views, Total: result.Total}, nil
}
