package cluster

import (
	"sort"

	"github.com/bigthack/newsbrief/internal/collect"
)

// Cluster is a group of items judged to report the same underlying
// story: equal TitleKey across outlets. Items keep their original
// collection order.
type Cluster struct {
	Key   string
	Items []collect.Item
}

// Group clusters deduplicated items by title key alone. Clusters are
// sorted by descending size, ties broken by the lexicographically
// smallest member title, so output order is reproducible and the
// most-corroborated stories come first. Downstream limit truncation
// relies on this ordering.
func Group(items []collect.Item) []Cluster {
	byKey := make(map[string]*Cluster)
	var order []string
	for _, it := range items {
		key := TitleKey(it.Title)
		c, ok := byKey[key]
		if !ok {
			c = &Cluster{Key: key}
			byKey[key] = c
			order = append(order, key)
		}
		c.Items = append(c.Items, it)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, key := range order {
		clusters = append(clusters, *byKey[key])
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i].Items) != len(clusters[j].Items) {
			return len(clusters[i].Items) > len(clusters[j].Items)
		}
		return smallestTitle(clusters[i]) < smallestTitle(clusters[j])
	})
	return clusters
}

// Links returns the distinct article links across clusters, in cluster
// order. Used to drive the fetch stage without fetching any link twice.
func Links(clusters []Cluster) []string {
	seen := make(map[string]bool)
	var links []string
	for _, c := range clusters {
		for _, it := range c.Items {
			if !seen[it.Link] {
				seen[it.Link] = true
				links = append(links, it.Link)
			}
		}
	}
	return links
}

func smallestTitle(c Cluster) string {
	min := c.Items[0].Title
	for _, it := range c.Items[1:] {
		if it.Title < min {
			min = it.Title
		}
	}
	return min
}
