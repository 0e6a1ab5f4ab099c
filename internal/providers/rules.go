package providers

import (
	"strings"

	"watchtag/internal/config"
)

// TagPrefix is prepended to a rule name to form the catalog tag.
const TagPrefix = "provider:"

// Rule is one provider rule for the duration of a sweep. Rules are loaded
// once at sweep start and never re-read, so a concurrent configuration change
// cannot produce a mixed rule set.
type Rule struct {
	Name             string
	ProviderIDs      []int
	CreateCollection bool
	LogoURL          string
}

// Tag returns the catalog tag for a rule name.
func Tag(name string) string {
	return TagPrefix + name
}

// RulesFromConfig snapshots the configured provider rules in order.
func RulesFromConfig(cfg *config.Config) []Rule {
	if cfg == nil || len(cfg.Providers) == 0 {
		return nil
	}
	rules := make([]Rule, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		ids := make([]int, len(p.ProviderIDs))
		copy(ids, p.ProviderIDs)
		rules = append(rules, Rule{
			Name:             name,
			ProviderIDs:      ids,
			CreateCollection: p.CreateCollection,
			LogoURL:          p.LogoURL,
		})
	}
	return rules
}

// FindRule returns the rule with the given name, compared case-insensitively.
func FindRule(rules []Rule, name string) (Rule, bool) {
	for _, rule := range rules {
		if strings.EqualFold(rule.Name, name) {
			return rule, true
		}
	}
	return Rule{}, false
}
