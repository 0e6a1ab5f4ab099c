package providers

import (
	"reflect"
	"testing"
)

func rulesFixture() []Rule {
	return []Rule{
		{Name: "Netflix", ProviderIDs: []int{8}},
		{Name: "Amazon Prime Video", ProviderIDs: []int{9, 119}},
		{Name: "Inert", ProviderIDs: nil},
		{Name: "Disney+", ProviderIDs: []int{337}},
	}
}

func TestMatchReturnsRuleOrder(t *testing.T) {
	matched := Match([]int{337, 8, 500}, rulesFixture())
	want := []string{"Netflix", "Disney+"}
	if !reflect.DeepEqual(matched, want) {
		t.Fatalf("got %v want %v", matched, want)
	}
}

func TestMatchEmptyRemoteIDs(t *testing.T) {
	if got := Match(nil, rulesFixture()); got != nil {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestMatchEmptyRuleIDsNeverMatches(t *testing.T) {
	rules := []Rule{{Name: "Inert"}}
	for _, ids := range [][]int{{1}, {0}, {8, 9, 10}} {
		if got := Match(ids, rules); got != nil {
			t.Fatalf("inert rule matched %v for ids %v", got, ids)
		}
	}
}

func TestMatchSingleRuleMultipleIDs(t *testing.T) {
	matched := Match([]int{119}, rulesFixture())
	want := []string{"Amazon Prime Video"}
	if !reflect.DeepEqual(matched, want) {
		t.Fatalf("got %v want %v", matched, want)
	}
}
