package cluster

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// stopWords are dropped from titles before hashing so that minor
// phrasing differences still map to the same key.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "to": true,
	"and": true, "in": true, "on": true, "for": true, "with": true,
	"at": true, "from": true, "by": true,
}

// TitleKey computes the dedup key for a title: lowercase, strip
// punctuation, drop stopwords, collapse whitespace, then hash. A pure
// function of the title text; the outlet domain is never mixed in.
func TitleKey(title string) string {
	normalized := normalizeTitle(title)
	if normalized == "" {
		normalized = strings.ToLower(title)
	}
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var kept []string
	for _, w := range strings.Fields(b.String()) {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
