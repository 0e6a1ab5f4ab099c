package providers

import (
	"testing"

	"watchtag/internal/config"
)

func TestRulesFromConfigSnapshotsInOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Providers = []config.Provider{
		{Name: "Netflix", ProviderIDs: []int{8}, CreateCollection: true},
		{Name: "  ", ProviderIDs: []int{1}},
		{Name: "Disney+", ProviderIDs: []int{337}, LogoURL: "https://example.com/d.png"},
	}

	rules := RulesFromConfig(&cfg)
	if len(rules) != 2 {
		t.Fatalf("expected blank-named rule dropped, got %d rules", len(rules))
	}
	if rules[0].Name != "Netflix" || !rules[0].CreateCollection {
		t.Fatalf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].LogoURL != "https://example.com/d.png" {
		t.Fatalf("unexpected second rule: %+v", rules[1])
	}

	// The snapshot must not alias config slices.
	cfg.Providers[0].ProviderIDs[0] = 999
	if rules[0].ProviderIDs[0] != 8 {
		t.Fatal("rule provider ids alias the config slice")
	}
}

func TestFindRuleCaseInsensitive(t *testing.T) {
	rules := []Rule{{Name: "Netflix"}, {Name: "Disney+"}}
	if rule, ok := FindRule(rules, "netflix"); !ok || rule.Name != "Netflix" {
		t.Fatalf("unexpected result: %+v ok=%v", rule, ok)
	}
	if _, ok := FindRule(rules, "Hulu"); ok {
		t.Fatal("unexpected match")
	}
}

func TestTag(t *testing.T) {
	if got := Tag("Netflix"); got != "provider:Netflix" {
		t.Fatalf("unexpected tag: %q", got)
	}
}
