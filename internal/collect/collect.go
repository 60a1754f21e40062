package collect

import (
	"context"
	"log"
	"net/url"
	"strings"
)

// oversample controls how many raw entries are taken per feed relative
// to maxPerFeed, leaving room for dedup and limit trimming downstream.
const oversample = 3

// Item is a normalized feed entry. Immutable once produced; Domain is
// derived from Link exactly once, here.
type Item struct {
	Title   string
	Link    string
	Summary string
	Domain  string
}

// Entry is a raw feed entry as returned by a Parser.
type Entry struct {
	Title   string
	Link    string
	Summary string
}

// Parser parses a single feed URL into raw entries. Implementations
// may fail per feed; the Collector skips failed feeds and continues.
type Parser interface {
	Parse(ctx context.Context, feedURL string) ([]Entry, error)
}

// Collector turns a list of feed URLs into a flat list of normalized items.
type Collector struct {
	parser     Parser
	maxPerFeed int
}

// New creates a Collector. maxPerFeed bounds how many entries survive
// per feed after oversampling.
func New(parser Parser, maxPerFeed int) *Collector {
	if maxPerFeed <= 0 {
		maxPerFeed = 20
	}
	return &Collector{parser: parser, maxPerFeed: maxPerFeed}
}

// Collect parses every feed and returns normalized items. A feed that
// fails to parse is skipped; the run never aborts here.
func (c *Collector) Collect(ctx context.Context, feedURLs []string) []Item {
	var out []Item
	for _, feedURL := range feedURLs {
		entries, err := c.parser.Parse(ctx, feedURL)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", feedURL, err)
			continue
		}

		if limit := c.maxPerFeed * oversample; len(entries) > limit {
			entries = entries[:limit]
		}

		kept := 0
		for _, e := range entries {
			title := NormalizeWhitespace(e.Title)
			link := strings.TrimSpace(e.Link)
			if title == "" || link == "" {
				continue
			}
			out = append(out, Item{
				Title:   title,
				Link:    link,
				Summary: NormalizeWhitespace(e.Summary),
				Domain:  Domain(link),
			})
			kept++
		}
		log.Printf("Collected %d items from %s", kept, feedURL)
	}
	return out
}

// NormalizeWhitespace collapses runs of whitespace to single spaces
// and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Domain extracts the lowercased host from a link. A malformed URL
// yields the empty string: an unknown outlet, never matched against
// any allowlist.
func Domain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
