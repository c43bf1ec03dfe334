// Command check-dataset loads a song dataset and verifies it is fit for the
// map browser.
//
// Usage:
//
//	LYRICMAP_DATASET=./public/data/HKLyrics.csv go run ./cmd/check-dataset
//
// The dataset may be a local path (optionally with a .bz2 or .gz sibling) or
// an http(s) URL. The command exits non-zero if validation fails.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/andreiashu/lyricmap"
)

type config struct {
	Dataset    string        `env:"LYRICMAP_DATASET"     envDefault:"./data/sample.csv"`
	Language   string        `env:"LYRICMAP_LANGUAGE"    envDefault:"en"`
	MinRecords int           `env:"LYRICMAP_MIN_RECORDS" envDefault:"1"`
	Timeout    time.Duration `env:"LYRICMAP_TIMEOUT"     envDefault:"30s"`
	LogLevel   string        `env:"LYRICMAP_LOG_LEVEL"   envDefault:"info"`
	LogFormat  string        `env:"LYRICMAP_LOG_FORMAT"  envDefault:"text"`
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parsing environment: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error("dataset check failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	opts := []lyricmap.Option{lyricmap.WithLogger(logger)}
	if strings.HasPrefix(cfg.Dataset, "http://") || strings.HasPrefix(cfg.Dataset, "https://") {
		opts = append(opts, lyricmap.WithURL(cfg.Dataset, nil))
	} else {
		opts = append(opts, lyricmap.WithFile(cfg.Dataset))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	ds, err := lyricmap.NewLoader(opts...).Load(ctx)
	if err != nil {
		return err
	}

	rep := lyricmap.Inspect(ds)
	fmt.Printf("Dataset: %s\n", ds.Source)
	fmt.Printf("      Records: %d (%d rows skipped)\n", rep.Records, rep.Skipped)
	fmt.Printf("      Regions: %d, locations: %d, artists: %d, decades: %d\n",
		rep.Regions, rep.Locations, rep.Artists, rep.Decades)
	fmt.Printf("      Performers: %d\n", rep.Performers)
	fmt.Printf("      Without region: %d, without year: %d\n", rep.Unregioned, rep.Undated)
	if len(rep.DuplicateIDs) > 0 {
		fmt.Printf("      Duplicate ids: %s\n", strings.Join(rep.DuplicateIDs, ", "))
	}

	lang := lyricmap.ParseLanguage(cfg.Language)
	for _, r := range lyricmap.RegionFacets(ds.Records) {
		fmt.Printf("      %-20s %d\n", r.Label(lang), r.Count)
	}

	if err := lyricmap.Validate(ds, cfg.MinRecords); err != nil {
		return err
	}
	fmt.Println("Dataset OK.")
	return nil
}

func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
