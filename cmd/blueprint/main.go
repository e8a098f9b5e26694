// Package main is the blueprint CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deepsea-edna/blueprint/internal/cli"
	"github.com/deepsea-edna/blueprint/internal/config"
	"github.com/deepsea-edna/blueprint/internal/models"
	"github.com/deepsea-edna/blueprint/internal/session"
	"github.com/deepsea-edna/blueprint/internal/store"
	"github.com/deepsea-edna/blueprint/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/blueprint/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "search":
		runSearch()
	case "stats":
		runStats()
	case "zones":
		runZones()
	case "saved":
		runSaved()
	case "history":
		runHistory()
	case "seed":
		runSeed()
	case "version", "--version", "-v":
		fmt.Printf("blueprint version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`blueprint - deep-sea eDNA sequence explorer

Usage:
  blueprint search [flags] [query]   query the dataset
  blueprint stats [flags]            aggregate counts over the dataset
  blueprint zones [flags]            list sampling zones
  blueprint saved [flags]            list or remove saved searches
  blueprint history [flags]          list recently logged queries
  blueprint seed [flags]             populate an empty dataset with demo data
  blueprint version                  print version

Run any command with -h for its flags.
`)
}

// openSession loads the dataset and builds a session around it.
func openSession(cfg *config.Config, logger *zap.Logger) (*session.Session, *store.Store, error) {
	st, err := store.NewStore(cfg.Dataset.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	ctx := context.Background()
	records, err := st.LoadRecords(ctx)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("load records: %w", err)
	}
	zones, err := st.LoadZones(ctx)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("load zones: %w", err)
	}
	sess, err := session.NewSession(records, zones, cfg.Search,
		session.WithLogger(logger),
		session.WithSavedSearchStore(st),
		session.WithHistoryStore(st),
	)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	logger.Debug("dataset loaded",
		zap.Int("records", len(records)),
		zap.Int("zones", len(zones)),
		zap.String("path", cfg.Dataset.DatabasePath),
	)
	return sess, st, nil
}

func mustSetup(configPath string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved))
	return cfg, logger
}

// buildQuery joins positional args with spaces so multi-word queries work the
// same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func parseFormat(s string) cli.OutputFormat {
	if s == "json" {
		return cli.OutputJSON
	}
	return cli.OutputText
}

func parseNovelty(s string) (models.Novelty, error) {
	switch s {
	case "", "any":
		return models.NoveltyAny, nil
	case "only":
		return models.NoveltyOnly, nil
	case "exclude":
		return models.NoveltyExclude, nil
	default:
		return models.NoveltyAny, fmt.Errorf("unknown novelty %q; use any, only, or exclude", s)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	taxon := fs.String("taxon", "", "taxon substring filter (case-insensitive)")
	zone := fs.String("zone", "", "zone id (exact match)")
	novelty := fs.String("novel", "any", "novel taxa: any, only, or exclude")
	minConfidence := fs.Float64("min-confidence", 0, "minimum confidence in [0,1]")
	sortKey := fs.String("sort", "", "sort key: id, taxon, confidence, length, quality")
	sortDir := fs.String("dir", "asc", "sort direction: asc or desc")
	page := fs.Int("page", 1, "page number (1-based)")
	limit := fs.Int("limit", 0, "page size: 25, 50, or 100 (default from config)")
	async := fs.Bool("async", false, "run as an asynchronous search job")
	saveName := fs.String("save", "", "save this query and filters under a name")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	sess, st, err := openSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	nov, err := parseNovelty(*novelty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	patch := models.FilterPatch{
		Novelty:       &nov,
		MinConfidence: minConfidence,
		Taxon:         taxon,
		ZoneID:        zone,
	}
	if err := sess.UpdateFilters(patch); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid filters: %v\n", err)
		os.Exit(1)
	}
	if *sortKey != "" {
		dir := models.SortAsc
		if *sortDir == "desc" {
			dir = models.SortDesc
		}
		sess.SetSortConfig(*sortKey, dir)
	}
	if *limit != 0 {
		if err := sess.SetPageLimit(*limit); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid page limit: %v\n", err)
			os.Exit(1)
		}
	}
	if err := sess.SetPage(*page); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid page: %v\n", err)
		os.Exit(1)
	}
	queryText := buildQuery(fs.Args())
	if err := sess.SetSearchQuery(queryText); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid query: %v\n", err)
		os.Exit(1)
	}

	format := parseFormat(*output)
	if *async && queryText != "" {
		runAsyncSearch(sess, queryText, format, logger)
	} else {
		result := sess.PaginatedSequences()
		if err := cli.WritePage(os.Stdout, result, format); err != nil {
			logger.Fatal("Failed to write results", zap.Error(err))
		}
		if result.Total == 0 && format == cli.OutputText {
			cli.WriteSuggestions(os.Stdout, sess.Suggestions())
		}
		if _, err := sess.LogQuery(); err != nil {
			logger.Warn("Failed to persist history entry", zap.Error(err))
		}
	}

	if *saveName != "" {
		saved, err := sess.SaveCurrentSearch(*saveName)
		if err != nil {
			logger.Fatal("Failed to save search", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "saved search %q (%s)\n", saved.Name, saved.ID)
	}
}

// runAsyncSearch drives a query through the job orchestrator and waits for
// the terminal state.
func runAsyncSearch(sess *session.Session, queryText string, format cli.OutputFormat, logger *zap.Logger) {
	done := make(chan struct{})
	job, err := sess.SubmitSearch(context.Background(), queryText)
	if err != nil {
		logger.Fatal("Failed to submit search", zap.Error(err))
	}
	fmt.Fprintf(os.Stderr, "submitted job %s\n", job.ID)

	go func() {
		for {
			if snap := sess.SearchJob(); snap.Status == models.JobComplete || snap.Status == models.JobFailed {
				close(done)
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Fatal("Search job timed out")
	}
	if err := cli.WriteJob(os.Stdout, sess.SearchJob(), format); err != nil {
		logger.Fatal("Failed to write job", zap.Error(err))
	}
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	sess, st, err := openSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	if err := cli.WriteStatistics(os.Stdout, sess.Statistics(), parseFormat(*output)); err != nil {
		logger.Fatal("Failed to write stats", zap.Error(err))
	}
}

func runZones() {
	fs := flag.NewFlagSet("zones", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	sess, st, err := openSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	if err := cli.WriteZones(os.Stdout, sess.Zones(), parseFormat(*output)); err != nil {
		logger.Fatal("Failed to write zones", zap.Error(err))
	}
}

func runSaved() {
	fs := flag.NewFlagSet("saved", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	remove := fs.String("rm", "", "remove the saved search with this id")
	apply := fs.String("apply", "", "apply the saved search with this id, then print its results")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	sess, st, err := openSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	if *remove != "" {
		if err := sess.History().RemoveSavedSearch(*remove); err != nil {
			logger.Fatal("Failed to remove saved search", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "removed %s\n", *remove)
		return
	}
	if *apply != "" {
		for _, saved := range sess.History().SavedSearches() {
			if saved.ID == *apply {
				if err := sess.History().ApplySavedSearch(saved); err != nil {
					logger.Fatal("Failed to apply saved search", zap.Error(err))
				}
				if err := cli.WritePage(os.Stdout, sess.PaginatedSequences(), parseFormat(*output)); err != nil {
					logger.Fatal("Failed to write results", zap.Error(err))
				}
				return
			}
		}
		fmt.Fprintf(os.Stderr, "no saved search with id %s\n", *apply)
		os.Exit(1)
	}

	saved := sess.History().SavedSearches()
	if len(saved) == 0 {
		fmt.Println("no saved searches")
		return
	}
	for _, s := range saved {
		q := s.Query
		if q == "" {
			q = "(all records)"
		}
		fmt.Printf("%s  %-24s %s\n", s.ID, s.Name, q)
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	sess, st, err := openSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	if err := cli.WriteHistory(os.Stdout, sess.History().History(), parseFormat(*output)); err != nil {
		logger.Fatal("Failed to write history", zap.Error(err))
	}
}

func runSeed() {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer func() { _ = logger.Sync() }()

	st, err := store.NewStore(cfg.Dataset.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open dataset", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	count, err := st.CountRecords(ctx)
	if err != nil {
		logger.Fatal("Failed to count records", zap.Error(err))
	}
	if count > 0 {
		fmt.Fprintf(os.Stderr, "dataset already has %d records; refusing to seed\n", count)
		os.Exit(1)
	}
	if err := st.Seed(ctx); err != nil {
		logger.Fatal("Failed to seed dataset", zap.Error(err))
	}
	count, _ = st.CountRecords(ctx)
	fmt.Printf("seeded %d records into %s\n", count, cfg.Dataset.DatabasePath)
}
