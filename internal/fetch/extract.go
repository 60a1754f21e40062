package fetch

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bigthack/newsbrief/internal/config"
)

// Fetcher runs the article text acquisition stage: budget check,
// robots check, polite fetch, readability extraction. All state is
// owned by one Fetcher instance per run; nothing here is ambient.
type Fetcher struct {
	client      *Client
	robots      *RobotsCache
	budget      *Budget
	hosts       *HostLimiter
	extractor   Extractor
	allowlist   map[string]bool
	concurrency int
}

// NewFetcher wires a Fetcher from the fetch config. The allowlist
// holds the hosts of the configured feeds for the current topic; it
// only matters when a host's robots.txt cannot be resolved.
func NewFetcher(cfg config.Fetch, allowlist map[string]bool) *Fetcher {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		client:      NewClient(cfg.Timeout, cfg.UserAgent, cfg.MaxRetries, cfg.Backoff),
		robots:      NewRobotsCache(cfg.UserAgent),
		budget:      NewBudget(cfg.MaxRequests),
		hosts:       NewHostLimiter(cfg.PerHostInterval),
		extractor:   ReadabilityExtractor{},
		allowlist:   allowlist,
		concurrency: concurrency,
	}
}

// Budget exposes the run budget for reporting.
func (f *Fetcher) Budget() *Budget { return f.budget }

// SetExtractor replaces the text extractor. Tests use this to avoid
// running readability.
func (f *Fetcher) SetExtractor(e Extractor) { f.extractor = e }

// ExtractAll fetches and extracts text for every distinct link, with
// at most concurrency fetches in flight. Every link gets an entry in
// the result; budget exhaustion, robots denial, fetch failure, and
// extraction failure all record the empty string. The map is keyed by
// link, so results are deterministic regardless of completion order.
func (f *Fetcher) ExtractAll(ctx context.Context, links []string) map[string]string {
	texts := make(map[string]string, len(links))
	var mu sync.Mutex

	seen := make(map[string]bool, len(links))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for _, link := range links {
		if seen[link] {
			continue
		}
		seen[link] = true

		link := link
		g.Go(func() error {
			text := f.extractOne(ctx, link)
			mu.Lock()
			texts[link] = text
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	log.Printf("Text extraction complete: %d links, budget %d/%d used",
		len(texts), f.budget.Used(), f.budget.Total())
	return texts
}

// extractOne runs the per-link fallback chain. Every failure mode
// collapses to empty text; nothing propagates as an error.
func (f *Fetcher) extractOne(ctx context.Context, link string) string {
	if ctx.Err() != nil {
		return ""
	}
	if !f.budget.Take(1) {
		log.Printf("Budget exhausted, skipping %s", link)
		return ""
	}
	if !f.robots.Allowed(ctx, link, f.allowlist) {
		log.Printf("Robots disallow for %s", link)
		return ""
	}
	if err := f.hosts.Wait(ctx, link); err != nil {
		return ""
	}

	html, err := f.client.Get(ctx, link)
	if err != nil {
		log.Printf("Fetch failed for %s: %v", link, err)
		return ""
	}

	text, err := f.extractor.Extract(html, link)
	if err != nil {
		log.Printf("No extractable content from %s: %v", link, err)
		return ""
	}
	return text
}
