package catalog

import "testing"

func TestExternalIDPrefersCanonicalKey(t *testing.T) {
	item := Item{ExternalIDs: map[string]string{
		"tmdb": "111",
		"Tmdb": "603",
		"Imdb": "tt0133093",
	}}
	id, ok := item.ExternalID(TmdbIDKey)
	if !ok || id != "603" {
		t.Fatalf("expected canonical match 603, got %q ok=%v", id, ok)
	}
}

func TestExternalIDFallsBackCaseInsensitively(t *testing.T) {
	item := Item{ExternalIDs: map[string]string{
		"TMDB": "603",
		"Imdb": "tt0133093",
	}}
	id, ok := item.ExternalID(TmdbIDKey)
	if !ok || id != "603" {
		t.Fatalf("expected case-insensitive match 603, got %q ok=%v", id, ok)
	}
}

func TestExternalIDMissing(t *testing.T) {
	item := Item{ExternalIDs: map[string]string{"Imdb": "tt0133093"}}
	if _, ok := item.ExternalID(TmdbIDKey); ok {
		t.Fatal("expected no match")
	}
	if _, ok := (Item{}).ExternalID(TmdbIDKey); ok {
		t.Fatal("expected no match on empty map")
	}
}

func TestExternalIDSkipsBlankValues(t *testing.T) {
	item := Item{ExternalIDs: map[string]string{"Tmdb": "  "}}
	if _, ok := item.ExternalID(TmdbIDKey); ok {
		t.Fatal("expected blank canonical value to be treated as absent")
	}
}

func TestHasTagIsCaseInsensitive(t *testing.T) {
	item := Item{Tags: []string{"Provider:Netflix", "favorite"}}
	if !item.HasTag("provider:netflix") {
		t.Fatal("expected case-insensitive tag match")
	}
	if item.HasTag("provider:hulu") {
		t.Fatal("unexpected tag match")
	}
}
