// Package pipeline orchestrates one brief run for one topic:
// collect -> dedupe -> cluster -> extract -> assemble. All mutable
// state (budget, robots cache, text cache) is owned by the run, so
// concurrent topic runs proceed independently.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bigthack/newsbrief/internal/brief"
	"github.com/bigthack/newsbrief/internal/cluster"
	"github.com/bigthack/newsbrief/internal/collect"
	"github.com/bigthack/newsbrief/internal/config"
	"github.com/bigthack/newsbrief/internal/database"
	"github.com/bigthack/newsbrief/internal/fetch"
	"github.com/bigthack/newsbrief/internal/metrics"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
}

// Result holds the outcome of a full pipeline run.
type Result struct {
	Topic   string
	Brief   *brief.Brief
	Metrics metrics.Entry
	Steps   []StepResult
}

// Pipeline runs the ingestion-and-assembly flow for one topic.
type Pipeline struct {
	cfg    *config.Config
	db     *database.DB
	parser collect.Parser
	// newFetcher builds the run-scoped fetcher; swappable in tests.
	newFetcher func(allowlist map[string]bool) *fetch.Fetcher
}

// Options for one run.
type Options struct {
	Topic string
	Limit int    // max stories in the brief
	Date  string // ISO date override; empty means today
}

// New creates a Pipeline. db may be nil to skip archiving.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		db:     db,
		parser: collect.NewFeedParser(cfg.Fetch.UserAgent),
		newFetcher: func(allowlist map[string]bool) *fetch.Fetcher {
			return fetch.NewFetcher(cfg.Fetch, allowlist)
		},
	}
}

// Run executes the pipeline for a topic. The only fatal outcome is a
// topic with no configured feeds, reported before any network call;
// every per-feed and per-fetch failure degrades to less text in the
// assembled brief.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	feeds := p.cfg.FeedsForTopic(opts.Topic)
	if len(feeds) == 0 {
		available := p.cfg.TopicNames()
		sort.Strings(available)
		return nil, fmt.Errorf("no feeds configured for topic %q (available: %s)",
			opts.Topic, strings.Join(available, ", "))
	}

	if opts.Limit <= 0 {
		opts.Limit = 3
	}
	r := &Result{Topic: opts.Topic}

	// Allowlist = hosts of the configured feeds for this topic. Used
	// only when a host's robots.txt cannot be resolved.
	allowlist := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		if d := collect.Domain(f); d != "" {
			allowlist[d] = true
		}
	}

	log.Printf("Step 1/5: Collecting %d feeds for topic %q...", len(feeds), opts.Topic)
	collector := collect.New(p.parser, p.cfg.Collect.MaxPerFeed)
	items := collector.Collect(ctx, feeds)
	r.step("Collect", "%d items from %d feeds", len(items), len(feeds))

	log.Println("Step 2/5: Deduplicating...")
	deduped := cluster.Dedupe(items)
	r.step("Dedupe", "%d unique items (%d same-outlet repeats removed)", len(deduped), len(items)-len(deduped))

	log.Println("Step 3/5: Clustering...")
	clusters := cluster.Group(deduped)
	r.step("Cluster", "%d clusters", len(clusters))

	kept := clusters
	if len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	log.Println("Step 4/5: Extracting article text...")
	fetcher := p.newFetcher(allowlist)
	texts := fetcher.ExtractAll(ctx, cluster.Links(kept))
	withText := 0
	for _, t := range texts {
		if t != "" {
			withText++
		}
	}
	r.step("Extract", "text for %d/%d links, budget %d/%d used",
		withText, len(texts), fetcher.Budget().Used(), fetcher.Budget().Total())

	log.Println("Step 5/5: Assembling brief...")
	b := brief.Assemble(opts.Topic, kept, texts, brief.Options{
		Limit:       opts.Limit,
		MaxSpans:    p.cfg.Brief.MaxSpansPerStory,
		MinSources:  p.cfg.Brief.MinSourcesPerStory,
		MaxSentence: p.cfg.Brief.MaxSentenceLength,
		Date:        opts.Date,
	})
	r.Brief = b
	r.step("Assemble", "%d stories for %s", len(b.Stories), b.Date)

	r.Metrics = metrics.Compute(opts.Topic, b, p.cfg.LabelForDomain)

	if p.db != nil {
		if err := p.archive(b, r); err != nil {
			// Archiving is bookkeeping; the brief itself is done.
			log.Printf("Failed to archive brief: %v", err)
		}
	}

	return r, nil
}

func (p *Pipeline) archive(b *brief.Brief, r *Result) error {
	storiesJSON, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding brief: %w", err)
	}

	sourceCount := 0
	for _, s := range b.Stories {
		sourceCount += len(s.Sources)
	}
	if _, err := p.db.InsertBrief(r.Topic, b.Date, b.Headline, string(storiesJSON),
		len(b.Stories), sourceCount); err != nil {
		return fmt.Errorf("inserting brief: %w", err)
	}

	domainCounts, err := json.Marshal(r.Metrics.DomainCounts)
	if err != nil {
		return fmt.Errorf("encoding domain counts: %w", err)
	}
	if _, err := p.db.InsertReport(r.Topic, b.Date, r.Metrics.Stories,
		r.Metrics.UniqueDomains, string(domainCounts)); err != nil {
		return fmt.Errorf("inserting run report: %w", err)
	}
	return nil
}

func (r *Result) step(name, format string, args ...any) {
	r.Steps = append(r.Steps, StepResult{
		Name:    name,
		Summary: fmt.Sprintf(format, args...),
	})
}
