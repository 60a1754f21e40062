package fetch

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Extractor turns fetched HTML into clean body text. An empty result
// is a legitimate "no body found" outcome, not an error.
type Extractor interface {
	Extract(html, pageURL string) (string, error)
}

// ReadabilityExtractor extracts article text with go-readability.
type ReadabilityExtractor struct{}

// Extract runs readability over the page and returns its plain text
// with whitespace normalized.
func (ReadabilityExtractor) Extract(html, pageURL string) (string, error) {
	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(article.TextContent), " "), nil
}
