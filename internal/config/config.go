package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	// Topics maps a topic name to its feed URLs.
	Topics map[string][]string `yaml:"topics"`
	// Labels maps a topic label to the domains it covers. Used only for
	// labeling telemetry, never for pipeline decisions.
	Labels  map[string][]string `yaml:"labels"`
	Fetch   Fetch               `yaml:"fetch"`
	Collect Collect             `yaml:"collect"`
	Brief   Brief               `yaml:"brief"`
	Output  Output              `yaml:"output"`
	Server  Server              `yaml:"server"`
}

// Fetch holds the article-fetch tunables. Durations are written as Go
// duration strings in YAML (8s, 500ms).
type Fetch struct {
	MaxRequests     int
	Timeout         time.Duration
	UserAgent       string
	MaxRetries      int
	Backoff         time.Duration
	Concurrency     int
	PerHostInterval time.Duration
}

// UnmarshalYAML decodes duration fields from strings and leaves any
// field absent from the YAML at its current (default) value.
func (f *Fetch) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxRequests     *int    `yaml:"max_requests"`
		Timeout         *string `yaml:"timeout"`
		UserAgent       *string `yaml:"user_agent"`
		MaxRetries      *int    `yaml:"max_retries"`
		Backoff         *string `yaml:"backoff"`
		Concurrency     *int    `yaml:"concurrency"`
		PerHostInterval *string `yaml:"per_host_interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.MaxRequests != nil {
		f.MaxRequests = *raw.MaxRequests
	}
	if raw.UserAgent != nil {
		f.UserAgent = *raw.UserAgent
	}
	if raw.MaxRetries != nil {
		f.MaxRetries = *raw.MaxRetries
	}
	if raw.Concurrency != nil {
		f.Concurrency = *raw.Concurrency
	}
	for _, d := range []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"fetch.timeout", raw.Timeout, &f.Timeout},
		{"fetch.backoff", raw.Backoff, &f.Backoff},
		{"fetch.per_host_interval", raw.PerHostInterval, &f.PerHostInterval},
	} {
		if d.src == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

type Collect struct {
	MaxPerFeed int `yaml:"max_per_feed"`
}

type Brief struct {
	MaxSpansPerStory   int `yaml:"max_spans_per_story"`
	MinSourcesPerStory int `yaml:"min_sources_per_story"`
	MaxSentenceLength  int `yaml:"max_sentence_length"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
	OutDir  string `yaml:"out_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

const defaultUserAgent = "NewsBriefBot/0.2 (+https://github.com/bigthack/newsbrief/issues)"

// ConfigDir returns the XDG config directory for newsbrief.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsbrief")
}

// DataDir returns the XDG data directory for newsbrief.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newsbrief")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsbrief/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newsbrief init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration. The pipeline must run
// correctly with no config file present at all.
func Default() *Config {
	cfg, _ := parse(DefaultConfigYAML)
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults and then
// environment overrides for the fetch tunables.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Fetch: Fetch{
			MaxRequests:     40,
			Timeout:         8 * time.Second,
			UserAgent:       defaultUserAgent,
			MaxRetries:      2,
			Backoff:         500 * time.Millisecond,
			Concurrency:     4,
			PerHostInterval: 250 * time.Millisecond,
		},
		Collect: Collect{MaxPerFeed: 20},
		Brief: Brief{
			MaxSpansPerStory:   3,
			MinSourcesPerStory: 2,
			MaxSentenceLength:  240,
		},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg.Fetch)
	return cfg, nil
}

// applyEnv layers NB_* environment overrides on top of the fetch
// config. Timeout and backoff are given in seconds, matching the
// variables honored by earlier deployments.
func applyEnv(f *Fetch) {
	if v := os.Getenv("NB_MAX_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.MaxRequests = n
		}
	}
	if v := os.Getenv("NB_TIMEOUT"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			f.Timeout = time.Duration(secs * float64(time.Second))
		}
	}
	if v := os.Getenv("NB_UA"); v != "" {
		f.UserAgent = v
	}
	if v := os.Getenv("NB_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.MaxRetries = n
		}
	}
	if v := os.Getenv("NB_BACKOFF"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			f.Backoff = time.Duration(secs * float64(time.Second))
		}
	}
}

// FeedsForTopic returns the configured feed URLs for a topic.
func (c *Config) FeedsForTopic(topic string) []string {
	return c.Topics[topic]
}

// TopicNames returns all configured topic names, unsorted.
func (c *Config) TopicNames() []string {
	names := make([]string, 0, len(c.Topics))
	for name := range c.Topics {
		names = append(names, name)
	}
	return names
}

// LabelForDomain returns the topic label covering a domain, or
// "general" when no label claims it.
func (c *Config) LabelForDomain(domain string) string {
	for label, domains := range c.Labels {
		for _, d := range domains {
			if d == domain {
				return label
			}
		}
	}
	return "general"
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetOutDir returns the directory for rendered brief files.
func (c *Config) GetOutDir() string {
	if c.Output.OutDir != "" {
		return c.Output.OutDir
	}
	return filepath.Join(c.GetDataDir(), "out")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
