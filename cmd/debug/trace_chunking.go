//go:build ignore
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
)

// Traces how one PDF chunks: per-page chunk boundaries, sizes, and a
// coverage check that samples the start, middle, and end of every page
// and verifies each sample landed in some chunk. Run with
// `go run cmd/debug/trace_chunking.go <file.pdf>`.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: trace_chunking <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := config.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	fmt.Println("--- EXTRACTING PAGES ---")
	pages, err := pdf.NewExtractor().Extract(raw)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	total := 0
	for _, p := range pages {
		fmt.Printf("Page %d: %d chars\n", p.Page, len(p.Text))
		total += len(p.Text)
	}
	fmt.Printf("Total Length: %d chars across %d pages\n", total, len(pages))
	fmt.Println("--------------------------------")

	fmt.Println("--- SPLITTING INTO CHUNKS ---")
	fmt.Printf("ChunkSize=%d Overlap=%d\n", cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	splitter := textsplit.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	chunks, err := splitter.SplitDocument(path, pages)
	if err != nil {
		log.Fatalf("Split failed: %v", err)
	}

	fmt.Printf("Produced %d chunks.\n", len(chunks))
	for _, c := range chunks {
		fmt.Printf("[Chunk %d] Page: %d, Length: %d chars\n", c.Seq, c.Page, len(c.Text))
		fmt.Printf("Preview: %s...\n", mbSubstr(c.Text, 50))
	}
	fmt.Println("--------------------------------")

	// Overlap means a sample may sit in any chunk of its page, so the
	// check scans all of them.
	fmt.Println("--- VERIFYING COVERAGE ---")
	for _, p := range pages {
		checkSample(chunks, p, "START", mbSubstr(p.Text, 80))

		midIndex := len(p.Text) / 2
		checkSample(chunks, p, "MIDDLE", mbSubstr(p.Text[midIndex:], 80))

		endIndex := len(p.Text) - 80
		if endIndex < 0 {
			endIndex = 0
		}
		checkSample(chunks, p, "END", mbSubstr(p.Text[endIndex:], 80))
	}
	fmt.Println("--------------------------------")
}

func checkSample(chunks []entity.Chunk, page entity.PageText, label, sample string) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		fmt.Printf("[Page %d %s] empty page, skipped\n", page.Page, label)
		return
	}
	for _, c := range chunks {
		if c.Page == page.Page && strings.Contains(c.Text, sample) {
			fmt.Printf("[Page %d %s] Found\n", page.Page, label)
			return
		}
	}
	fmt.Printf("[Page %d %s] NOT FOUND! Sample: %s\n", page.Page, label, sample)
}

func mbSubstr(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l])
	}
	return s
}
