// Command dealscout runs the listing pipeline end to end: it reads raw
// listings from JSON, deduplicates them across sources, scores every
// canonical listing against the weighted criteria, and writes the ranked
// results as JSON.
//
// Usage:
//
//	dealscout -listings listings.json [-config config.yaml]
//	          [-enrichment enrichment.json] [-output scored.json]
//	          [-market-report report.json] [-filter-stale]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ajmercer/go-dealscout/infrastructure/middleware"
	"github.com/ajmercer/go-dealscout/infrastructure/stats"
	"github.com/ajmercer/go-dealscout/internal/application"
	"github.com/ajmercer/go-dealscout/internal/domain"
)

func main() {
	// Load a .env file when present; real environment variables win.
	_ = godotenv.Load()

	var (
		configPath     = flag.String("config", os.Getenv("DEALSCOUT_CONFIG"), "path to YAML configuration (defaults used when empty)")
		listingsPath   = flag.String("listings", "", "path to raw listings JSON (required)")
		enrichmentPath = flag.String("enrichment", "", "path to enrichment JSON keyed by canonical listing ID")
		outputPath     = flag.String("output", "", "path for scored output JSON (stdout when empty)")
		reportPath     = flag.String("market-report", "", "path for market-condition report JSON (skipped when empty)")
		filterStale    = flag.Bool("filter-stale", false, "drop listings stale for the current market speed before scoring")
	)
	flag.Parse()

	if *listingsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *listingsPath, *enrichmentPath, *outputPath, *reportPath, *filterStale); err != nil {
		log.Fatalf("dealscout: %v", err)
	}
}

func run(configPath, listingsPath, enrichmentPath, outputPath, reportPath string, filterStale bool) error {
	config := application.DefaultConfig()
	if configPath != "" {
		loaded, err := application.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}

	var raw []domain.RawListing
	if err := readJSON(listingsPath, &raw); err != nil {
		return fmt.Errorf("listings: %w", err)
	}

	enrichment := make(map[string]domain.Enrichment)
	if enrichmentPath != "" {
		if err := readJSON(enrichmentPath, &enrichment); err != nil {
			return fmt.Errorf("enrichment: %w", err)
		}
	}

	metrics := middleware.NewPrometheusMetrics(nil)
	engine, err := application.NewEngine(config, nil, metrics)
	if err != nil {
		return err
	}

	ctx := context.Background()
	canonical, err := engine.Deduplicate(ctx, raw)
	if err != nil {
		return err
	}
	log.Printf("deduplicated %d raw listings into %d canonical listings", len(raw), len(canonical))

	if reportPath != "" || filterStale {
		calc, err := stats.NewCalculator(config.Stats, metrics)
		if err != nil {
			return err
		}
		areaStats := calc.Compute(ctx, canonical)
		report := stats.AnalyzeMarket(canonical, areaStats)

		if reportPath != "" {
			if err := writeJSON(reportPath, report); err != nil {
				return fmt.Errorf("market report: %w", err)
			}
		}
		if filterStale {
			before := len(canonical)
			canonical = stats.FilterStale(canonical, areaStats, calc.GroupBy(), report.Recommended)
			log.Printf("market is %s; filtered %d stale listings", report.Condition, before-len(canonical))
		}
	}

	scored, err := engine.Score(ctx, canonical, enrichment)
	if err != nil {
		return err
	}

	if outputPath == "" {
		return encodeJSON(os.Stdout, scored)
	}
	return writeJSON(outputPath, scored)
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeJSON(f, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
