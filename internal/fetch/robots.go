package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// robotsTimeout bounds the robots.txt fetch. Robots requests use their
// own tiny client and are not charged against the article budget:
// compliance cost, not content cost.
const robotsTimeout = 4 * time.Second

// RobotsCache resolves and memoizes per-host robots.txt decisions for
// the lifetime of one run. A host is fetched at most once; concurrent
// callers for an unresolved host share a single in-flight fetch.
type RobotsCache struct {
	client    *http.Client
	userAgent string

	group singleflight.Group
	mu    sync.Mutex
	// hosts maps host -> parsed robots data, or nil when robots.txt
	// could not be fetched or parsed (the unknown marker).
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsCache creates an empty cache using the given User-Agent for
// both robots fetches and rule evaluation.
func NewRobotsCache(userAgent string) *RobotsCache {
	return &RobotsCache{
		client:    &http.Client{Timeout: robotsTimeout},
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched. With parsed rules the
// decision defers to robots.txt. When robots.txt is unavailable the
// default is deny, permissive only for hosts on the caller-supplied
// allowlist of configured feed domains.
func (rc *RobotsCache) Allowed(ctx context.Context, rawURL string, allowlist map[string]bool) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)

	data := rc.lookup(ctx, host, u.Scheme)
	if data == nil {
		return allowlist[host]
	}
	return data.TestAgent(u.Path, rc.userAgent)
}

// lookup returns the cached robots data for host, fetching it once if
// unresolved. The singleflight group guarantees exactly one robots
// fetch per host even under concurrent workers.
func (rc *RobotsCache) lookup(ctx context.Context, host, scheme string) *robotstxt.RobotsData {
	rc.mu.Lock()
	data, ok := rc.hosts[host]
	rc.mu.Unlock()
	if ok {
		return data
	}

	v, _, _ := rc.group.Do(host, func() (any, error) {
		data := rc.fetch(ctx, host, scheme)
		rc.mu.Lock()
		rc.hosts[host] = data
		rc.mu.Unlock()
		return data, nil
	})
	data, _ = v.(*robotstxt.RobotsData)
	return data
}

// fetch retrieves and parses {scheme}://{host}/robots.txt. Any failure
// (non-2xx/3xx, timeout, parse error, empty body) yields nil, the
// conservative unknown marker.
func (rc *RobotsCache) fetch(ctx context.Context, host, scheme string) *robotstxt.RobotsData {
	if scheme == "" {
		scheme = "https"
	}
	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}
