package main

import (
	"fmt"

	"watchtag/internal/api"
	"watchtag/internal/catalog"
	"watchtag/internal/collections"
	"watchtag/internal/config"
	"watchtag/internal/providers"
	"watchtag/internal/tmdb"
)

// serviceBundle holds the clients a command needs to act on the configured
// media server and lookup service.
type serviceBundle struct {
	catalog     *catalog.Client
	collections *collections.HTTPService
	fetcher     tmdb.AvailabilityFetcher
	rules       []providers.Rule
	provider    *api.ProviderService
}

// serviceWithoutCollections returns a provider service that never contacts
// the collection endpoints.
func serviceWithoutCollections(bundle *serviceBundle) *api.ProviderService {
	return api.NewProviderService(bundle.rules, nil, bundle.catalog)
}

func buildServices(cfg *config.Config) (*serviceBundle, error) {
	catalogClient, err := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.APIKey)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	collectionSvc, err := collections.NewHTTPService(cfg.Catalog.URL, cfg.Catalog.APIKey)
	if err != nil {
		return nil, fmt.Errorf("collection service: %w", err)
	}
	var fetcher tmdb.AvailabilityFetcher = tmdb.Disabled{}
	if cfg.TMDB.APIKey != "" {
		fetcher, err = tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Region)
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
	}
	rules := providers.RulesFromConfig(cfg)
	return &serviceBundle{
		catalog:     catalogClient,
		collections: collectionSvc,
		fetcher:     fetcher,
		rules:       rules,
		provider:    api.NewProviderService(rules, collectionSvc, catalogClient),
	}, nil
}
