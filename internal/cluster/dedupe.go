package cluster

import "github.com/bigthack/newsbrief/internal/collect"

type dedupeKey struct {
	title  string
	domain string
}

// Dedupe removes items that are the same story re-posted by the same
// outlet, keyed on (TitleKey, domain). First occurrence wins and input
// order is preserved, so cross-outlet corroboration survives for
// clustering.
func Dedupe(items []collect.Item) []collect.Item {
	seen := make(map[dedupeKey]bool, len(items))
	uniq := make([]collect.Item, 0, len(items))
	for _, it := range items {
		k := dedupeKey{title: TitleKey(it.Title), domain: it.Domain}
		if seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, it)
	}
	return uniq
}
