package brief

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bigthack/newsbrief/internal/cluster"
)

const whyItMatters = "Auto-generated from live sources; each line cites a source [n]."

// Options tune assembly. Zero values fall back to the shipped
// defaults; the caps are heuristics, not invariants.
type Options struct {
	Limit       int    // max stories in the brief
	MaxSpans    int    // max summary lines per story
	MinSources  int    // floor for the per-story sources list
	MaxSentence int    // sentence truncation length
	Date        string // ISO date override; empty means today
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = 3
	}
	if o.MaxSpans <= 0 {
		o.MaxSpans = 3
	}
	if o.MinSources <= 0 {
		o.MinSources = 2
	}
	if o.MaxSentence <= 0 {
		o.MaxSentence = 240
	}
	if o.Date == "" {
		o.Date = time.Now().Format("2006-01-02")
	}
	return o
}

var titleCaser = cases.Title(language.English)

// Assemble builds the Brief from clusters in clusterer order, taking
// at most Limit stories.
func Assemble(topic string, clusters []cluster.Cluster, texts map[string]string, opts Options) *Brief {
	opts = opts.withDefaults()

	if len(clusters) > opts.Limit {
		clusters = clusters[:opts.Limit]
	}

	stories := make([]Story, 0, len(clusters))
	for _, c := range clusters {
		stories = append(stories, buildStory(c, texts, opts))
	}

	return &Brief{
		Date:     opts.Date,
		Headline: titleCaser.String(topic) + " Daily Brief",
		Stories:  stories,
	}
}

// buildStory turns one cluster into a Story. Source ids follow cluster
// order, never fetch-completion order, and every summary line's source
// reference resolves to a listed Source; a span whose link has no id
// is dropped rather than emitted dangling.
func buildStory(c cluster.Cluster, texts map[string]string, opts Options) Story {
	sources := make([]Source, 0, len(c.Items))
	idByLink := make(map[string]int, len(c.Items))
	for i, it := range c.Items {
		id := i + 1
		title := it.Domain
		if title == "" {
			title = "Source"
		}
		sources = append(sources, Source{ID: id, Title: title, URL: it.Link})
		if _, ok := idByLink[it.Link]; !ok {
			idByLink[it.Link] = id
		}
	}

	var summary []SummaryLine
	for _, span := range SelectSpans(c.Items, texts, opts.MaxSpans, opts.MaxSentence) {
		id, ok := idByLink[span.Link]
		if !ok {
			continue
		}
		summary = append(summary, SummaryLine{Sentence: span.Sentence, Source: id})
	}

	// Keep the sources list tight: uncited outlets are trimmed, but at
	// least MinSources stay listed when available.
	keep := len(summary)
	if keep < opts.MinSources {
		keep = opts.MinSources
	}
	if keep < len(sources) {
		sources = sources[:keep]
	}

	// A line citing a trimmed source is dropped rather than emitted
	// with a broken reference. The title fallback keeps the story from
	// ending up with no summary at all; it always cites source 1.
	kept := summary[:0]
	for _, line := range summary {
		if line.Source <= len(sources) {
			kept = append(kept, line)
		}
	}
	summary = kept
	if len(summary) == 0 && len(sources) > 0 {
		summary = []SummaryLine{{Sentence: c.Items[0].Title, Source: 1}}
	}

	return Story{
		Headline:     c.Items[0].Title,
		Summary:      summary,
		WhyItMatters: whyItMatters,
		Disputed:     "",
		Sources:      sources,
	}
}
