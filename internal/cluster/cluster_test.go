package cluster

import (
	"testing"

	"github.com/bigthack/newsbrief/internal/collect"
)

func item(title, link, domain string) collect.Item {
	return collect.Item{Title: title, Link: link, Domain: domain}
}

func TestDedupeSameOutletRepost(t *testing.T) {
	items := []collect.Item{
		item("Markets rally on tech earnings", "https://a.example/1", "a.example"),
		item("Markets Rally on Tech Earnings!", "https://a.example/2", "a.example"),
		item("Markets rally on tech earnings", "https://b.example/1", "b.example"),
	}

	got := Dedupe(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 items after dedupe, got %d", len(got))
	}
	// First occurrence wins.
	if got[0].Link != "https://a.example/1" {
		t.Errorf("expected first occurrence kept, got %s", got[0].Link)
	}
	// Cross-outlet corroboration survives.
	if got[1].Domain != "b.example" {
		t.Errorf("expected cross-outlet item kept, got %+v", got[1])
	}
}

func TestDedupeIdempotent(t *testing.T) {
	items := []collect.Item{
		item("Story one", "https://a.example/1", "a.example"),
		item("Story one", "https://a.example/1b", "a.example"),
		item("Story two", "https://b.example/2", "b.example"),
	}

	once := Dedupe(items)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("item %d changed on second dedupe", i)
		}
	}
}

func TestGroupCorroboratingTitles(t *testing.T) {
	items := []collect.Item{
		item("Markets rally on tech earnings", "https://a.example/1", "a.example"),
		item("The markets rally, on tech earnings", "https://b.example/1", "b.example"),
		item("Leaders meet to discuss climate goals", "https://c.example/1", "c.example"),
	}

	clusters := Group(items)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	// Larger cluster first.
	if len(clusters[0].Items) != 2 {
		t.Errorf("expected corroborated cluster first, got %d members", len(clusters[0].Items))
	}
	domains := map[string]bool{}
	for _, it := range clusters[0].Items {
		domains[it.Domain] = true
	}
	if !domains["a.example"] || !domains["b.example"] {
		t.Errorf("expected both outlets in corroborated cluster, got %v", domains)
	}
}

func TestGroupDeterministicOrder(t *testing.T) {
	items := []collect.Item{
		item("Alpha event reported", "https://a.example/1", "a.example"),
		item("Beta event reported", "https://b.example/1", "b.example"),
		item("Gamma event reported", "https://c.example/1", "c.example"),
	}
	reversed := []collect.Item{items[2], items[1], items[0]}

	a := Group(items)
	b := Group(reversed)
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("expected 3 singleton clusters, got %d and %d", len(a), len(b))
	}
	// Equal sizes: ties broken by smallest member title, so order is
	// identical regardless of input order.
	for i := range a {
		if a[i].Items[0].Title != b[i].Items[0].Title {
			t.Errorf("cluster %d differs: %q vs %q", i, a[i].Items[0].Title, b[i].Items[0].Title)
		}
	}
	if a[0].Items[0].Title != "Alpha event reported" {
		t.Errorf("expected lexicographic tie-break, got %q first", a[0].Items[0].Title)
	}
}

func TestLinksDistinctInClusterOrder(t *testing.T) {
	clusters := []Cluster{
		{Items: []collect.Item{
			item("One", "https://a.example/1", "a.example"),
			item("One again", "https://a.example/1", "a.example"),
		}},
		{Items: []collect.Item{
			item("Two", "https://b.example/2", "b.example"),
		}},
	}

	links := Links(clusters)
	want := []string{"https://a.example/1", "https://b.example/2"}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d", len(want), len(links))
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, links[i], want[i])
		}
	}
}
