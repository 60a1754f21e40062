package collect

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedParser parses RSS/Atom feeds using gofeed.
type FeedParser struct {
	parser *gofeed.Parser
}

// NewFeedParser creates a gofeed-backed Parser with the given User-Agent.
func NewFeedParser(userAgent string) *FeedParser {
	p := gofeed.NewParser()
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &FeedParser{parser: p}
}

// Parse fetches and parses one feed into raw entries.
func (fp *FeedParser) Parse(ctx context.Context, feedURL string) ([]Entry, error) {
	feed, err := fp.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := item.Link
		if link == "" {
			link = item.GUID
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		entries = append(entries, Entry{
			Title:   item.Title,
			Link:    link,
			Summary: stripHTML(summary),
		})
	}
	return entries, nil
}

// stripHTML removes markup from feed descriptions, which frequently
// embed tags and entities inside the summary text.
func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return s
}
