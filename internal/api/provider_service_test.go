package api

import (
	"context"
	"errors"
	"testing"

	"watchtag/internal/catalog"
	"watchtag/internal/providers"
)

type stubCollections struct {
	byName map[string]string
}

func (s *stubCollections) FindByName(_ context.Context, name string) (string, bool, error) {
	id, ok := s.byName[name]
	return id, ok, nil
}

func (s *stubCollections) Create(context.Context, string) (string, error) {
	panic("read-only service must not create collections")
}

func (s *stubCollections) AddMembers(context.Context, string, []string) error {
	panic("read-only service must not add members")
}

type stubCatalog struct {
	lastQuery catalog.ItemsQuery
	result    catalog.ItemsResult
}

func (s *stubCatalog) Items(_ context.Context, query catalog.ItemsQuery) (catalog.ItemsResult, error) {
	s.lastQuery = query
	return s.result, nil
}

func (s *stubCatalog) UpdateItem(context.Context, catalog.Item) error {
	panic("read-only service must not update items")
}

func TestListResolvesCollectionIDs(t *testing.T) {
	rules := []providers.Rule{
		{Name: "Netflix", ProviderIDs: []int{8}, CreateCollection: true, LogoURL: "/n.png"},
		{Name: "RentHub", ProviderIDs: []int{3}},
	}
	cols := &stubCollections{byName: map[string]string{"Netflix": "c1"}}
	service := NewProviderService(rules, cols, &stubCatalog{})

	views, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d", len(views))
	}
	if views[0].CollectionID != "c1" || views[0].Tag != "provider:Netflix" {
		t.Fatalf("unexpected view: %#v", views[0])
	}
	if views[1].CollectionID != "" {
		t.Fatalf("rule without collection got id %q", views[1].CollectionID)
	}
}

func TestItemsFiltersByProviderTag(t *testing.T) {
	rules := []providers.Rule{{Name: "Netflix", ProviderIDs: []int{8}}}
	store := &stubCatalog{result: catalog.ItemsResult{
		Items: []catalog.Item{{ID: "a", Name: "Movie A", Kind: catalog.KindMovie}},
		Total: 1,
	}}
	service := NewProviderService(rules, nil, store)

	resp, err := service.Items(context.Background(), ItemsQuery{
		Provider: "netflix",
		Kinds:    []string{catalog.KindMovie},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if store.lastQuery.Tag != "provider:Netflix" {
		t.Fatalf("query tag = %q", store.lastQuery.Tag)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].ID != "a" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestItemsUnknownProvider(t *testing.T) {
	service := NewProviderService(nil, nil, &stubCatalog{})
	_, err := service.Items(context.Background(), ItemsQuery{Provider: "nope"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}
