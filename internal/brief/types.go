// Package brief assembles clustered feed items and extracted article
// text into the dated, cited brief record handed to renderers.
package brief

// Source is one cited outlet within a Story. IDs are 1-based and
// stable within their Story.
type Source struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SummaryLine is one sentence of a Story's summary, attributed to a
// Source by id.
type SummaryLine struct {
	Sentence string `json:"sentence"`
	Source   int    `json:"source"`
}

// Story is one assembled story: a headline, cited summary lines, and
// the sources they reference.
type Story struct {
	Headline     string        `json:"headline"`
	Summary      []SummaryLine `json:"summary"`
	WhyItMatters string        `json:"why_it_matters"`
	Disputed     string        `json:"disputed"`
	Sources      []Source      `json:"sources"`
}

// Brief is the final dated collection of stories for one topic run.
// Immutable once handed to a renderer.
type Brief struct {
	Date     string  `json:"date"`
	Headline string  `json:"headline"`
	Stories  []Story `json:"stories"`
}
