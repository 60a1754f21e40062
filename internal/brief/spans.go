package brief

import (
	"strings"

	"github.com/bigthack/newsbrief/internal/collect"
)

// Span is a short attributable sentence picked from one cluster
// member's text.
type Span struct {
	Link     string
	Sentence string
}

// SelectSpans picks at most maxSpans citation spans for a cluster, one
// per item in cluster order. Each item's text is chosen by fallback:
// extracted article text, then feed summary, then nothing. A cluster
// that yields no spans at all falls back to the first item's title, so
// every story carries at least one summary line.
func SelectSpans(items []collect.Item, texts map[string]string, maxSpans, maxLen int) []Span {
	if maxSpans <= 0 {
		maxSpans = 3
	}

	var spans []Span
	for _, it := range items {
		text := texts[it.Link]
		if text == "" {
			text = it.Summary
		}
		if text == "" {
			continue
		}

		sents := SplitSentences(text, maxLen)
		if len(sents) == 0 {
			continue
		}
		spans = append(spans, Span{Link: it.Link, Sentence: sents[0]})
		if len(spans) >= maxSpans {
			break
		}
	}

	if len(spans) == 0 && len(items) > 0 {
		spans = append(spans, Span{Link: items[0].Link, Sentence: items[0].Title})
	}
	return spans
}

// SplitSentences segments text on sentence-ending punctuation followed
// by whitespace, normalizes whitespace, and truncates long sentences
// with an ellipsis.
func SplitSentences(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = 240
	}

	var sents []string
	var current strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || isSpace(runes[i+1])) {
			if s := clampSentence(current.String(), maxLen); s != "" {
				sents = append(sents, s)
			}
			current.Reset()
		}
	}
	if s := clampSentence(current.String(), maxLen); s != "" {
		sents = append(sents, s)
	}
	return sents
}

func clampSentence(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen-1]) + "…"
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
