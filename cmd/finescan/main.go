// Command finescan runs the field-extraction pipeline over a recognized
// document saved as JSON ({"text": ..., "symbols": [...]}) and prints the
// extraction result. A plain text file works too; symbol confidences then
// default to 1.0.
// Usage: go run ./cmd/finescan -in ticket.json [-csv out.csv] [-xlsx out.xlsx]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"finescan/internal/config"
	"finescan/internal/csvexport"
	"finescan/internal/detect"
	"finescan/internal/domain"
	"finescan/internal/export"
	"finescan/internal/extractor"
	_ "finescan/internal/extractor/gemini"
	_ "finescan/internal/extractor/openai"
	"finescan/internal/pattern"
	"finescan/internal/pipeline"
	"finescan/internal/port"
	"finescan/internal/textnorm"
	"finescan/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inPath := flag.String("in", "", "recognized document JSON or plain text file")
	csvPath := flag.String("csv", "", "optional CSV output path")
	xlsxPath := flag.String("xlsx", "", "optional XLSX output path")
	flag.Parse()

	if *inPath == "" {
		return fmt.Errorf("-in is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	doc, err := readDocument(*inPath)
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	catalog := domain.NewCatalog()
	normalizer := textnorm.NewNormalizer()
	detector := detect.NewDetector(catalog, cfg.Pipeline.MaxEditDistance, cfg.Pipeline.MinSimilarity)
	deterministic := pipeline.NewDeterministic(catalog, pattern.NewExtractor())
	structured := extractor.NewStructured(client, catalog, cfg.Pipeline.ModelWeight, cfg.Pipeline.DetectorWeight)
	merger := validator.NewMerger(catalog, cfg.Pipeline.WatchList, cfg.Pipeline.ConfidenceThreshold)
	orch := pipeline.NewOrchestrator(normalizer, detector, deterministic, structured, merger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Pipeline.TimeoutSecs)*time.Second)
	defer cancel()

	result, err := orch.Run(ctx, doc)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))

	rows := []csvexport.Row{{ReportID: *inPath, Result: result}}
	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *csvPath, err)
		}
		defer func() { _ = f.Close() }()
		if err := csvexport.Write(f, catalog, rows); err != nil {
			return err
		}
	}
	if *xlsxPath != "" {
		data, err := export.WriteXLSX(catalog, rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *xlsxPath, err)
		}
	}
	return nil
}

func readDocument(path string) (*domain.RecognizedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc domain.RecognizedDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Text == "" {
		// Not a recognized-document JSON; treat the file as raw text.
		doc = domain.RecognizedDocument{Text: string(data), ByteSize: int64(len(data))}
	}
	return &doc, nil
}

func buildClient(cfg *config.Config) (port.ModelClient, error) {
	primary, err := extractor.NewClient(&cfg.Extractor.Primary)
	if err != nil {
		return nil, err
	}
	secondaryCfg := cfg.Extractor.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := extractor.NewClient(secondaryCfg)
	if err != nil {
		return nil, err
	}
	return extractor.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{cfg.Extractor.Primary.Provider, secondaryCfg.Provider},
	), nil
}
