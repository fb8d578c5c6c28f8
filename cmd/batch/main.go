package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"propintel/internal/config"
	"propintel/internal/domain"
	"propintel/internal/export"
	"propintel/internal/extractor"
	_ "propintel/internal/extractor/claude"
	_ "propintel/internal/extractor/gemini"
	_ "propintel/internal/extractor/openai"
	"propintel/internal/fusion"
	"propintel/internal/ocr/vision"
	"propintel/internal/pipeline"
)

func main() {
	dir := flag.String("dir", "", "directory of scanned documents to process (required)")
	out := flag.String("out", "results.xlsx", "output file; format chosen by extension (.csv or .xlsx)")
	provider := flag.String("provider", "", "extraction provider override (claude, gemini or openai)")
	delay := flag.Duration("delay", 0, "delay between documents (default from config)")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*dir, *out, *provider, *delay); err != nil {
		log.Fatal(err)
	}
}

func run(dir, out, provider string, delay time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if provider != "" {
		// Force a single-provider chain using the flat extractor settings.
		cfg.Extractor.Provider = provider
		cfg.Extractor.Primary.Provider = ""
		cfg.Extractor.Secondary.Provider = ""
		cfg.Extractor.Tertiary.Provider = ""
	}
	if delay > 0 {
		cfg.Pipeline.InterDocumentDelay = delay
	}

	docs, err := readDocuments(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no supported documents found in %s", dir)
	}
	log.Printf("found %d document(s) in %s", len(docs), dir)

	textExtractor := vision.NewClient(&cfg.OCR)
	fieldExtractor, err := extractor.NewFromConfig(&cfg.Extractor, &cfg.Pipeline)
	if err != nil {
		return fmt.Errorf("failed to build field extractor: %w", err)
	}
	processor := pipeline.NewProcessor(textExtractor, fieldExtractor, pipeline.Config{
		InterDocumentDelay: cfg.Pipeline.InterDocumentDelay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := func(e pipeline.ProgressEvent) {
		log.Printf("processing document %d/%d: %s", e.Index+1, e.Total, e.Filename)
	}

	results, err := processor.ProcessBatch(ctx, docs, progress)
	if err != nil {
		return fmt.Errorf("batch interrupted after %d document(s): %w", len(results), err)
	}

	fused := fusion.Fuse(results)

	batch := export.Batch{
		Filenames: filenames(docs),
		Results:   results,
		Fused:     &fused,
	}
	if err := writeOutput(out, batch); err != nil {
		return err
	}
	log.Printf("wrote %s", out)

	printSummary(results, fused)
	return nil
}

// readDocuments loads the supported files from dir in lexical order.
func readDocuments(dir string) ([]domain.RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var docs []domain.RawDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		fileType, ok := domain.AllowedExtensions[ext]
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		docs = append(docs, domain.NewRawDocument(entry.Name(), domain.AllowedFileTypes[fileType], content))
	}
	return docs, nil
}

func writeOutput(out string, batch export.Batch) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(out)) {
	case ".csv":
		if _, err := f.Write(export.BOM); err != nil {
			return err
		}
		w := export.NewWriter(f)
		if err := w.WriteBatch(batch); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	case ".xlsx":
		return export.WriteXLSX(f, batch)
	default:
		return domain.ErrUnsupportedFormat
	}
}

func printSummary(results []domain.ScoredExtraction, fused domain.FusedRecord) {
	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		}
	}
	log.Printf("processed %d document(s), %d succeeded, %d failed",
		len(results), succeeded, len(results)-succeeded)

	if fused.PrimarySource == "" {
		log.Printf("no document produced structured data; nothing to consolidate")
		return
	}

	log.Printf("consolidated record (primary %s, average confidence %d):",
		fused.PrimarySource, fused.AverageConfidence)
	for _, key := range fused.Fields.Keys() {
		log.Printf("  %-28s %s", key+":", fused.Fields.Value(key))
	}
}

func filenames(docs []domain.RawDocument) []string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Filename
	}
	return names
}
