// Command extract runs the bill extraction pipeline once against a local
// JSON pages file and prints the result envelope to stdout.
// Usage: go run ./cmd/extract -pages pages.json [-summary] [-xlsx out.xlsx]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/export"
	"billscan/internal/extract"
	"billscan/internal/extract/openai"
	"billscan/internal/port"
	"billscan/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	pagesPath := flag.String("pages", "", "path to a JSON file holding [{page_no, text, confidence}, ...]")
	summary := flag.Bool("summary", false, "include reconciled amount and fraud flags in the output")
	xlsxPath := flag.String("xlsx", "", "also write the line items to an XLSX workbook at this path")
	flag.Parse()

	if *pagesPath == "" {
		return fmt.Errorf("missing required -pages flag")
	}

	raw, err := os.ReadFile(*pagesPath)
	if err != nil {
		return fmt.Errorf("reading pages file: %w", err)
	}

	var pages []domain.Page
	if err := json.Unmarshal(raw, &pages); err != nil {
		return fmt.Errorf("parsing pages file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Without an API key the cascade runs alone and unstructured pages
	// come back empty.
	var fallback port.ItemExtractor
	if cfg.Extractor.APIKey != "" {
		fallback = extract.NewAdapter(
			openai.NewExtractor(&cfg.Extractor),
			extract.WithRateLimit(cfg.Extractor.RatePerSecond, cfg.Extractor.RateBurst),
			extract.WithTimeout(time.Duration(cfg.Pipeline.FallbackTimeoutSecs)*time.Second),
		)
	}

	svc := service.NewExtractionService(nil, nil, fallback, cfg.Pipeline.PageConcurrency)
	result := svc.ExtractDocument(context.Background(), &service.ExtractionInput{
		Pages:          pages,
		IncludeSummary: *summary,
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("creating workbook file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := export.WriteXLSX(f, result); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		log.Printf("wrote %s", *xlsxPath)
	}

	return nil
}
