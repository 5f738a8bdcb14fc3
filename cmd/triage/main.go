// Package main is the triage CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forensica/triage/internal/analysis"
	"github.com/forensica/triage/internal/cli"
	"github.com/forensica/triage/internal/config"
	"github.com/forensica/triage/internal/keyword"
	"github.com/forensica/triage/internal/loader"
	"github.com/forensica/triage/internal/models"
	"github.com/forensica/triage/internal/render"
	"github.com/forensica/triage/internal/server"
	"github.com/forensica/triage/internal/storage"
	"github.com/forensica/triage/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/triage/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used, so "triage serve" from the project dir picks up the project config.
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
	command := os.Args[1]
	switch command {
	case "analyze":
		runAnalyze()
	case "scan":
		runScan()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "render":
		runRender()
	case "serve":
		runServe()
	case "version", "--version", "-v":
		fmt.Printf("triage version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setupLogger loads config and builds the logger shared by all subcommands.
func setupLogger(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

// readRecords reads evidence records from a JSON file, or stdin when path is "-".
func readRecords(path string) ([]models.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return loader.Parse(data)
}

func outputFormat(name string) cli.OutputFormat {
	switch name {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", name)
		os.Exit(1)
		return cli.OutputText
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: triage analyze [flags] <records.json>   (use - for stdin)")
		os.Exit(1)
	}

	cfg, logger := setupLogger(*configPath, false)
	defer logger.Sync()

	records, err := readRecords(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load records: %v\n", err)
		os.Exit(1)
	}

	session := analysis.NewSession(&cfg.Analysis, logger)
	if err := session.SetRecords(records); err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	report := session.GenerateReport()
	if err := cli.WriteReport(os.Stdout, report, outputFormat(*output)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runScan() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	out := fs.String("o", "", "write records JSON to file instead of stdout")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: triage scan [flags] <directory>")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	_, logger := setupLogger(*configPath, false)
	defer logger.Sync()

	records, err := loader.NewDirLoader(logger).Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("directory scanned", zap.String("dir", dir), zap.Int("records", len(records)))

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	name := fs.String("name", "", "batch name")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: triage ingest [flags] <records.json>   (use - for stdin)")
		os.Exit(1)
	}

	cfg, logger := setupLogger(*configPath, false)
	defer logger.Sync()

	records, err := readRecords(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load records: %v\n", err)
		os.Exit(1)
	}

	store, index, cleanup := initializeStores(cfg, logger)
	defer cleanup()

	batch := &models.Batch{
		ID:      uuid.NewString(),
		Name:    *name,
		Records: records,
	}
	ctx := context.Background()
	if err := store.CreateBatch(ctx, batch); err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	if err := index.IndexBatch(ctx, batch); err != nil {
		logger.Warn("batch indexing failed", zap.Error(err))
	}
	fmt.Printf("Batch stored: %s (%d records)\n", batch.ID, len(records))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	batchID := fs.String("batch", "", "restrict search to one batch ID")
	limit := fs.Int("limit", 20, "number of results")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: triage search [flags] <query>")
		os.Exit(1)
	}
	query := fs.Arg(0)

	cfg, logger := setupLogger(*configPath, false)
	defer logger.Sync()

	_, index, cleanup := initializeStores(cfg, logger)
	defer cleanup()

	results, err := index.Search(context.Background(), *batchID, query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, results, outputFormat(*output)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRender() {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	format := fs.String("format", "dot", "output format: dot or png")
	out := fs.String("o", "", "output file (default: graph.<format>)")
	size := fs.Int("size", 800, "PNG image size in pixels")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: triage render [flags] <records.json>   (use - for stdin)")
		os.Exit(1)
	}

	cfg, logger := setupLogger(*configPath, false)
	defer logger.Sync()

	records, err := readRecords(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load records: %v\n", err)
		os.Exit(1)
	}

	session := analysis.NewSession(&cfg.Analysis, logger)
	if err := session.SetRecords(records); err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	g := session.Graph()

	outPath := *out
	if outPath == "" {
		outPath = "graph." + *format
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	switch *format {
	case "png":
		err = render.WritePNG(f, g, *size)
	case "dot":
		err = render.WriteDOT(f, g)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q; use dot or png\n", *format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Graph written: %s (%d nodes, %d edges)\n", outPath, g.NodeCount(), g.EdgeCount())
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setupLogger(*configPath, *debug)
	defer logger.Sync()

	store, index, cleanup := initializeStores(cfg, logger)
	defer cleanup()

	srv := server.NewServer(store, index, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// initializeStores opens the SQLite batch store and Bleve index from config.
func initializeStores(cfg *config.Config, logger *zap.Logger) (storage.Storage, *keyword.BleveIndex, func()) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	index, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		logger.Fatal("Failed to initialize keyword index", zap.Error(err))
	}
	return store, index, func() {
		_ = index.Close()
		_ = store.Close()
	}
}

func printUsage() {
	fmt.Println(`triage - forensic metadata triage and correlation engine

Usage:
  triage analyze [flags] <records.json>   Generate a threat report from records
  triage scan [flags] <directory>         Build records from a directory of files
  triage ingest [flags] <records.json>    Store records as an evidence batch
  triage search [flags] <query>           Keyword search over stored batches
  triage render [flags] <records.json>    Write the relationship graph (DOT/PNG)
  triage serve [flags]                    Start the HTTP API server
  triage version                          Show version
  triage help                             Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/triage/config.yaml)

Analyze Flags:
  --output string    Output format: text or json (default: text)

Scan Flags:
  -o string          Write records JSON to a file instead of stdout

Ingest Flags:
  --name string      Batch name

Search Flags:
  --batch string     Restrict search to one batch ID
  --limit int        Number of results (default: 20)
  --output string    Output format: text or json (default: text)

Render Flags:
  --format string    Output format: dot or png (default: dot)
  -o string          Output file (default: graph.<format>)
  --size int         PNG image size in pixels (default: 800)

Serve Flags:
  --debug            Enable debug logging

Examples:
  triage scan ./evidence -o records.json
  triage analyze records.json
  triage analyze --output json records.json > report.json
  triage ingest --name "case 7" records.json
  triage search --batch 4f1c rifle
  triage render --format png records.json -o case7.png
  triage serve --debug`)
}
