package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchtag/internal/catalog"
)

func TestItemsBuildsQueryAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Items" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if token := r.Header.Get("X-Emby-Token"); token != "token-123" {
			t.Fatalf("unexpected token: %q", token)
		}
		q := r.URL.Query()
		if q.Get("Recursive") != "true" {
			t.Fatalf("expected recursive listing, got %q", q.Get("Recursive"))
		}
		if q.Get("IncludeItemTypes") != "Movie,Series" {
			t.Fatalf("unexpected item types: %q", q.Get("IncludeItemTypes"))
		}
		if q.Get("Fields") != "ProviderIds,Tags" {
			t.Fatalf("unexpected fields: %q", q.Get("Fields"))
		}
		if q.Get("Tags") != "provider:Netflix" {
			t.Fatalf("unexpected tag filter: %q", q.Get("Tags"))
		}
		if q.Get("StartIndex") != "10" || q.Get("Limit") != "5" {
			t.Fatalf("unexpected paging: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Items": [{"Id": "a", "Name": "The Matrix", "Type": "Movie", "ProviderIds": {"Tmdb": "603"}, "Tags": ["provider:Netflix"]}],
			"TotalRecordCount": 42,
			"StartIndex": 10
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, "token-123")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	result, err := client.Items(context.Background(), catalog.ItemsQuery{
		Kinds:      []string{"Movie", "Series"},
		Tag:        "provider:Netflix",
		StartIndex: 10,
		Limit:      5,
	})
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}
	if result.Total != 42 || len(result.Items) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	item := result.Items[0]
	if item.ID != "a" || item.Kind != catalog.KindMovie {
		t.Fatalf("unexpected item: %+v", item)
	}
	if id, ok := item.ExternalID(catalog.TmdbIDKey); !ok || id != "603" {
		t.Fatalf("unexpected external id: %q ok=%v", id, ok)
	}
}

func TestUpdateItemPostsFullItem(t *testing.T) {
	var received catalog.Item
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/Items/a" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, "token-123")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	item := catalog.Item{ID: "a", Name: "The Matrix", Kind: catalog.KindMovie, Tags: []string{"provider:Netflix"}}
	if err := client.UpdateItem(context.Background(), item); err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}
	if received.ID != "a" || len(received.Tags) != 1 || received.Tags[0] != "provider:Netflix" {
		t.Fatalf("unexpected posted item: %+v", received)
	}
}

func TestUpdateItemRequiresID(t *testing.T) {
	client, err := catalog.NewClient("http://localhost:8096", "token")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.UpdateItem(context.Background(), catalog.Item{}); err == nil {
		t.Fatal("expected error for missing item id")
	}
}

func TestItemsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, "bad-token")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.Items(context.Background(), catalog.ItemsQuery{}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
