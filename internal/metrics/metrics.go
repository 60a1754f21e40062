// Package metrics computes per-run telemetry for a brief and appends
// it to the JSONL metrics log. The core owns the counts; formatting
// and any further shipping belong to whoever tails the log.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bigthack/newsbrief/internal/brief"
	"github.com/bigthack/newsbrief/internal/collect"
)

// Entry is one run's telemetry record.
type Entry struct {
	Date          string         `json:"date"`
	Topic         string         `json:"topic"`
	Stories       int            `json:"stories"`
	UniqueDomains int            `json:"unique_domains"`
	DomainCounts  map[string]int `json:"domain_counts"`
	// Labels maps each cited domain to its configured topic label.
	Labels map[string]string `json:"labels,omitempty"`
}

// Compute builds the telemetry entry for an assembled brief. labelFor
// may be nil when no label map is configured.
func Compute(topic string, b *brief.Brief, labelFor func(domain string) string) Entry {
	counts := make(map[string]int)
	for _, story := range b.Stories {
		for _, src := range story.Sources {
			if d := collect.Domain(src.URL); d != "" {
				counts[d]++
			}
		}
	}

	entry := Entry{
		Date:          time.Now().UTC().Format(time.RFC3339),
		Topic:         topic,
		Stories:       len(b.Stories),
		UniqueDomains: len(counts),
		DomainCounts:  counts,
	}

	if labelFor != nil {
		labels := make(map[string]string, len(counts))
		for d := range counts {
			labels[d] = labelFor(d)
		}
		entry.Labels = labels
	}
	return entry
}

// Append writes the entry as one JSON line to the metrics log,
// creating the directory as needed.
func Append(path string, entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding metrics entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening metrics log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing metrics entry: %w", err)
	}
	return nil
}
