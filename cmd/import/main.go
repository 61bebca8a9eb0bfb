// Command import loads themed sentences from a JSON or XLSX file into the
// database.
//
//	import -file sentences.xlsx
//	import -file sentences.json -dry-run
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/importer"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/platform/postgres"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/store"
)

var errNoFile = errors.New("-file is required")

type options struct {
	file      string
	configDir string
	dryRun    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "path to a .json or .xlsx sentence file")
	flag.StringVar(&opts.configDir, "config", "", "directory containing config.yaml")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse and summarize the file without writing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("import: %v", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.file == "" {
		return errNoFile
	}
	entries, err := importer.ParseFile(opts.file)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return writeJSON(out, summarize(entries))
	}

	cfgOpts := config.Options{}
	if opts.configDir != "" {
		cfgOpts.ConfigPaths = []string{opts.configDir}
	}
	cfg, err := config.LoadWithOptions(cfgOpts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Connect(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sentences := service.NewSentenceService(
		postgres.NewPostgresThemeStore(db, l),
		postgres.NewPostgresSentenceStore(db, l),
		store.NewTransactor(db),
		l,
	)
	report, err := importEntries(ctx, sentences, entries)
	if err != nil {
		return err
	}
	return writeJSON(out, report)
}

func importEntries(
	ctx context.Context,
	sentences service.SentenceService,
	entries []importer.ThemeEntry,
) (*service.ImportReport, error) {
	report, err := sentences.Import(ctx, entries)
	if err != nil {
		return report, fmt.Errorf("import failed: %w", err)
	}
	return report, nil
}

// fileSummary describes a parsed file for -dry-run.
type fileSummary struct {
	Entries   int            `json:"entries"`
	Sentences int            `json:"sentences"`
	PerTheme  map[string]int `json:"per_theme"`
}

func summarize(entries []importer.ThemeEntry) fileSummary {
	s := fileSummary{Entries: len(entries), PerTheme: make(map[string]int)}
	for _, e := range entries {
		name := e.Theme
		if e.Subtheme != "" {
			name += " / " + e.Subtheme
		}
		s.PerTheme[name] += len(e.Sentences)
		s.Sentences += len(e.Sentences)
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
