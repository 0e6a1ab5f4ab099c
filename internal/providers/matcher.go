package providers

// Match returns the names of rules whose provider-ID set intersects the
// fetched remote IDs, in rule configuration order. A rule with no provider
// IDs never matches. Pure function, no side effects.
func Match(remoteIDs []int, rules []Rule) []string {
	if len(remoteIDs) == 0 || len(rules) == 0 {
		return nil
	}

	remote := make(map[int]struct{}, len(remoteIDs))
	for _, id := range remoteIDs {
		remote[id] = struct{}{}
	}

	var matched []string
	for _, rule := range rules {
		for _, id := range rule.ProviderIDs {
			if _, ok := remote[id]; ok {
				matched = append(matched, rule.Name)
				break
			}
		}
	}
	return matched
}
