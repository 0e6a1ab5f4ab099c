package collections

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestService(t *testing.T, handler http.Handler) *HTTPService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	service, err := NewHTTPService(server.URL, "token", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewHTTPService: %v", err)
	}
	return service
}

func TestNewHTTPServiceValidation(t *testing.T) {
	if _, err := NewHTTPService("", "token"); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := NewHTTPService("http://server", ""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestFindByNameExactMatch(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Items" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("IncludeItemTypes"); got != "BoxSet" {
			t.Errorf("IncludeItemTypes = %q, want BoxSet", got)
		}
		if got := r.Header.Get("X-Emby-Token"); got != "token" {
			t.Errorf("token header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Items":[
			{"Id":"c1","Name":"Netflix Originals"},
			{"Id":"c2","Name":"Netflix"},
			{"Id":"c3","Name":"Netflix"}
		]}`))
	}))

	id, found, err := service.FindByName(context.Background(), "Netflix")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if !found || id != "c2" {
		t.Fatalf("FindByName = (%q, %v), want (c2, true)", id, found)
	}
}

func TestFindByNameNoMatch(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Items":[{"Id":"c1","Name":"Netflix Kids"}]}`))
	}))

	_, found, err := service.FindByName(context.Background(), "Netflix")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if found {
		t.Fatal("expected no match for fuzzy-only result")
	}
}

func TestCreateReturnsID(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/Collections" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("Name"); got != "Disney+" {
			t.Errorf("Name = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Id":"new-id"}`))
	}))

	id, err := service.Create(context.Background(), "Disney+")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "new-id" {
		t.Fatalf("Create id = %q, want new-id", id)
	}
}

func TestCreateMissingID(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	if _, err := service.Create(context.Background(), "Netflix"); err == nil {
		t.Fatal("expected error when create response has no id")
	}
}

func TestAddMembersBatchesIDs(t *testing.T) {
	var gotIDs string
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Collections/c9/Items" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotIDs = r.URL.Query().Get("Ids")
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := service.AddMembers(context.Background(), "c9", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if gotIDs != "a,b,c" {
		t.Fatalf("Ids = %q, want a,b,c", gotIDs)
	}
}

func TestAddMembersEmptySetSkipsRequest(t *testing.T) {
	called := false
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	if err := service.AddMembers(context.Background(), "c9", nil); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if called {
		t.Fatal("empty member set should not issue a request")
	}
}

func TestAddMembersServerError(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	if err := service.AddMembers(context.Background(), "c9", []string{"a"}); err == nil {
		t.Fatal("expected error on 403")
	}
}
