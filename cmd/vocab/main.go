// Command vocab is an interactive vocabulary trainer. Words are added with
// dictionary definitions, then drilled through timed learning steps and
// SM-2 spaced repetition.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yuchialin/vocab-trainer/internal/config"
	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
	"github.com/yuchialin/vocab-trainer/internal/trainer"
)

func main() {
	var (
		configFile string
		dbPath     string
		testMode   bool
	)
	flag.StringVar(&configFile, "config", "", "Path to config file (default ./vocab.yaml if present)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.BoolVar(&testMode, "test", false, "Accelerated mode: time runs 1000x faster against a separate test database")
	flag.Parse()

	if err := run(configFile, dbPath, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, dbPath string, testMode bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if testMode {
		cfg.Accelerated = true
	}

	logger, err := trainer.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	path := cfg.DBPath()
	if dbPath != "" {
		path = dbPath
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer store.Close()

	accel := 1.0
	if cfg.Accelerated {
		accel = scheduler.TestAcceleration
	}
	clock := scheduler.NewClock(accel)

	dictionary := dict.NewClient(dict.Config{
		DictionaryURL:  cfg.Dictionary.LookupURL,
		TranslationURL: cfg.Dictionary.TranslationURL,
		Timeout:        cfg.Dictionary.Timeout(),
	})

	svc := trainer.NewService(store, clock, dictionary, logger, cfg.Accelerated)

	app := newApp(svc, os.Stdin, os.Stdout, cfg.Accelerated)
	if cfg.Accelerated {
		fmt.Fprintf(app.out, "Test mode: time runs %dx faster, using database %s\n", int(scheduler.TestAcceleration), path)
	}
	return app.runLoop(ctx)
}
