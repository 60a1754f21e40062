// Package render serializes an assembled brief into its output
// formats: JSON for validators, plain text for email bodies, and a
// standalone HTML page.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/bigthack/newsbrief/internal/brief"
)

//go:embed templates/daily.html
var dailyTemplate string

var md = goldmark.New()

// Formats supported by WriteFiles.
const (
	FormatJSON = "json"
	FormatText = "txt"
	FormatHTML = "html"
	FormatAll  = "all"
)

// JSON renders the brief as indented JSON with the exact field layout
// consumed by downstream validators.
func JSON(b *brief.Brief) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Text renders the brief as a plain-text bulletin with [n] citations.
func Text(b *brief.Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s — %s\n\n", b.Headline, b.Date)
	for _, story := range b.Stories {
		sb.WriteString(story.Headline)
		sb.WriteString("\n")
		for _, line := range story.Summary {
			fmt.Fprintf(&sb, "  • %s [%d]\n", line.Sentence, line.Source)
		}
		for _, src := range story.Sources {
			fmt.Fprintf(&sb, "  [%d] %s — %s\n", src.ID, src.Title, src.URL)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Markdown renders the brief body as markdown, one section per story.
// The server and the HTML writer both build on this.
func Markdown(b *brief.Brief) string {
	var sb strings.Builder
	for i, story := range b.Stories {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", story.Headline)
		for _, line := range story.Summary {
			fmt.Fprintf(&sb, "- %s [%d]\n", line.Sentence, line.Source)
		}
		sb.WriteString("\n")
		if story.WhyItMatters != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", story.WhyItMatters)
		}
		sb.WriteString("**Sources:**\n")
		for _, src := range story.Sources {
			fmt.Fprintf(&sb, "- [%d] [%s](%s)\n", src.ID, src.Title, src.URL)
		}
	}
	return sb.String()
}

// HTML renders the brief as a standalone page: the markdown body
// converted with goldmark, wrapped in the embedded shell template.
func HTML(b *brief.Brief) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(b)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("daily").Parse(dailyTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing daily template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, map[string]any{
		"Headline": b.Headline,
		"Date":     b.Date,
		"Body":     template.HTML(body.String()), //nolint: gosec
	})
	if err != nil {
		return nil, fmt.Errorf("rendering daily template: %w", err)
	}
	return out.Bytes(), nil
}

// WriteFiles writes the brief under outdir as daily-{date}.{ext} in
// the requested format ("all" writes every format) and returns the
// paths written.
func WriteFiles(b *brief.Brief, outdir, format string) ([]string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	want := func(f string) bool { return format == f || format == FormatAll || format == "" }
	var paths []string

	if want(FormatJSON) {
		data, err := JSON(b)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(outdir, "daily-"+b.Date+".json")
		if err := os.WriteFile(p, append(data, '\n'), 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	if want(FormatText) {
		p := filepath.Join(outdir, "daily-"+b.Date+".txt")
		if err := os.WriteFile(p, []byte(Text(b)), 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	if want(FormatHTML) {
		data, err := HTML(b)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(outdir, "daily-"+b.Date+".html")
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}
