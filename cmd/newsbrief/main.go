package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/bigthack/newsbrief/internal/config"
	"github.com/bigthack/newsbrief/internal/database"
	"github.com/bigthack/newsbrief/internal/metrics"
	"github.com/bigthack/newsbrief/internal/pipeline"
	"github.com/bigthack/newsbrief/internal/render"
	"github.com/bigthack/newsbrief/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsbrief",
	Short:   "Cited daily news briefs from RSS feeds",
	Long:    "newsbrief ingests RSS/Atom feeds, clusters corroborating reports, and assembles a cited daily brief per topic.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			// The built-in defaults are a complete configuration; a
			// missing file is not fatal.
			cfg = config.Default()
			return nil
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsbrief", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsbrief/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure topics and feeds.")
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List configured topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := cfg.TopicNames()
		if len(names) == 0 {
			fmt.Println("No topics configured. Run 'newsbrief init' and edit the config.")
			return nil
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s (%d feeds)\n", name, len(cfg.Topics[name]))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Today: %s\n\n", database.Today())
		fmt.Println("Archive:")
		fmt.Printf("  Briefs: %d\n", stats.TotalBriefs)
		fmt.Printf("  Topics: %d\n", stats.Topics)
		fmt.Printf("  Days with data: %d\n", stats.DaysWithData)
		fmt.Printf("  Run reports: %d\n", stats.TotalReports)
		return nil
	},
}

// --- brief command ---

var (
	briefTopic   string
	briefLimit   int
	briefDate    string
	briefFormat  string
	briefOutdir  string
	briefTimeout time.Duration
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Run the pipeline and write the daily brief for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		if briefTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, briefTimeout)
			defer cancel()
		}

		pipe := pipeline.New(cfg, db)
		result, err := pipe.Run(ctx, pipeline.Options{
			Topic: briefTopic,
			Limit: briefLimit,
			Date:  briefDate,
		})
		if err != nil {
			return err
		}

		for i, step := range result.Steps {
			fmt.Printf("Step %d/%d: %s — %s\n", i+1, len(result.Steps), step.Name, step.Summary)
		}

		outdir := briefOutdir
		if outdir == "" {
			outdir = filepath.Join(cfg.GetOutDir(), briefTopic)
		}
		paths, err := render.WriteFiles(result.Brief, outdir, briefFormat)
		if err != nil {
			return fmt.Errorf("writing outputs: %w", err)
		}
		for _, p := range paths {
			fmt.Println(p)
		}

		metricsPath := filepath.Join(cfg.GetDataDir(), "metrics", "brief_metrics.jsonl")
		if err := metrics.Append(metricsPath, result.Metrics); err != nil {
			log.Printf("Failed to append metrics: %v", err)
		}
		fmt.Printf("Telemetry: topic=%s stories=%d unique_domains=%d\n",
			result.Metrics.Topic, result.Metrics.Stories, result.Metrics.UniqueDomains)
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVarP(&briefTopic, "topic", "t", "", "Topic to brief (required)")
	briefCmd.Flags().IntVarP(&briefLimit, "limit", "l", 3, "Max stories in the brief")
	briefCmd.Flags().StringVar(&briefDate, "date", "", "YYYY-MM-DD override for the brief date")
	briefCmd.Flags().StringVarP(&briefFormat, "format", "f", "all", "Output format: json, txt, html, all")
	briefCmd.Flags().StringVarP(&briefOutdir, "outdir", "o", "", "Output directory (default: <data>/out/<topic>)")
	briefCmd.Flags().DurationVar(&briefTimeout, "timeout", 2*time.Minute, "Overall run deadline")
	briefCmd.MarkFlagRequired("topic")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local archive browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "newsbrief.db")
	return database.Open(dbPath)
}
