package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bigthack/newsbrief/internal/config"
)

// echoExtractor returns the HTML unchanged so tests can assert on what
// was fetched without running readability.
type echoExtractor struct{}

func (echoExtractor) Extract(html, _ string) (string, error) { return html, nil }

type failingExtractor struct{}

func (failingExtractor) Extract(_, _ string) (string, error) {
	return "", errors.New("boom")
}

func testFetchConfig(maxRequests int) config.Fetch {
	return config.Fetch{
		MaxRequests: maxRequests,
		Timeout:     2 * time.Second,
		UserAgent:   "TestBot/1.0",
		MaxRetries:  0,
		Backoff:     time.Millisecond,
		Concurrency: 4,
	}
}

func articleServer(t *testing.T) (*httptest.Server, *atomic.Int32, map[string]bool) {
	t.Helper()
	var pageFetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
			return
		}
		pageFetches.Add(1)
		fmt.Fprintf(w, "content of %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	allowlist := map[string]bool{srv.Listener.Addr().String(): true}
	return srv, &pageFetches, allowlist
}

func TestExtractAllFetchesEachLinkOnce(t *testing.T) {
	srv, pageFetches, allowlist := articleServer(t)
	f := NewFetcher(testFetchConfig(10), allowlist)
	f.SetExtractor(echoExtractor{})

	links := []string{
		srv.URL + "/a",
		srv.URL + "/b",
		srv.URL + "/a", // duplicate
	}
	texts := f.ExtractAll(context.Background(), links)

	if len(texts) != 2 {
		t.Fatalf("expected 2 distinct links, got %d", len(texts))
	}
	if !strings.Contains(texts[srv.URL+"/a"], "/a") {
		t.Errorf("unexpected text for /a: %q", texts[srv.URL+"/a"])
	}
	if got := pageFetches.Load(); got != 2 {
		t.Errorf("expected 2 page fetches, got %d", got)
	}
	if f.Budget().Used() != 2 {
		t.Errorf("expected 2 budget units used, got %d", f.Budget().Used())
	}
}

func TestExtractAllZeroBudget(t *testing.T) {
	srv, pageFetches, allowlist := articleServer(t)
	f := NewFetcher(testFetchConfig(0), allowlist)
	f.SetExtractor(echoExtractor{})

	texts := f.ExtractAll(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})

	for link, text := range texts {
		if text != "" {
			t.Errorf("expected empty text for %s with zero budget, got %q", link, text)
		}
	}
	if pageFetches.Load() != 0 {
		t.Errorf("zero budget must block all page fetches, got %d", pageFetches.Load())
	}
}

func TestExtractAllRobotsDenied(t *testing.T) {
	var pageFetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
			return
		}
		pageFetches.Add(1)
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := NewFetcher(testFetchConfig(10), nil)
	f.SetExtractor(echoExtractor{})

	texts := f.ExtractAll(context.Background(), []string{srv.URL + "/story"})
	if texts[srv.URL+"/story"] != "" {
		t.Error("robots-denied link must record empty text")
	}
	if pageFetches.Load() != 0 {
		t.Errorf("robots denial must block the page fetch, got %d", pageFetches.Load())
	}
}

func TestExtractAllExtractorFailureIsEmptyText(t *testing.T) {
	srv, _, allowlist := articleServer(t)
	f := NewFetcher(testFetchConfig(10), allowlist)
	f.SetExtractor(failingExtractor{})

	texts := f.ExtractAll(context.Background(), []string{srv.URL + "/a"})
	if texts[srv.URL+"/a"] != "" {
		t.Error("extractor failure must collapse to empty text, not an error")
	}
}

func TestExtractAllFetchFailureIsEmptyText(t *testing.T) {
	srv, _, allowlist := articleServer(t)
	srvURL := srv.URL
	srv.Close() // connection refused from here on

	f := NewFetcher(testFetchConfig(10), allowlist)
	f.SetExtractor(echoExtractor{})

	texts := f.ExtractAll(context.Background(), []string{srvURL + "/a"})
	if texts[srvURL+"/a"] != "" {
		t.Error("fetch failure must collapse to empty text")
	}
}

func TestExtractAllExpiredContext(t *testing.T) {
	srv, pageFetches, allowlist := articleServer(t)
	f := NewFetcher(testFetchConfig(10), allowlist)
	f.SetExtractor(echoExtractor{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := f.ExtractAll(ctx, []string{srv.URL + "/a"})
	if texts[srv.URL+"/a"] != "" {
		t.Error("expired context must yield empty text, not a failure")
	}
	if pageFetches.Load() != 0 {
		t.Errorf("expired context should skip fetching, got %d fetches", pageFetches.Load())
	}
}
