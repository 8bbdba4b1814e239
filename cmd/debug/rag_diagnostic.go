package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// Retrieval diagnostic: runs the extract -> chunk -> embed -> search
// pipeline in memory against one or more PDFs and shows how every chunk
// scores for a query, across a sweep of candidate score floors. Useful
// when an answer cites the wrong page or retrieval misses an obvious
// passage. Nothing here touches the index cache.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: rag_diagnostic <question> <file.pdf> [file.pdf ...]")
		os.Exit(2)
	}
	question := os.Args[1]
	paths := os.Args[2:]

	cfg := config.Load()

	// Diagnostics embed locally regardless of EMBEDDING_PROVIDER so a
	// bad hosted key never masks a retrieval problem.
	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel, cfg.Ai.RequestTimeout)
	extractor := pdf.NewExtractor()
	splitter := textsplit.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)

	scoreFloors := []float64{0.70, 0.60, 0.50, 0.40, 0.30}

	ctx := context.Background()

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("RAG RETRIEVAL DIAGNOSTIC TOOL")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Printf("Question: %q\n", question)
	fmt.Printf("Files:    %s\n", strings.Join(paths, ", "))
	fmt.Println()

	fmt.Println("--- EXTRACTING AND CHUNKING ---")
	index := vectorindex.NewIndex()
	var allChunks []entity.Chunk
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Read %s: %v", path, err)
		}
		pages, err := extractor.Extract(raw)
		if err != nil {
			log.Fatalf("Extract %s: %v", path, err)
		}
		chunks, err := splitter.SplitDocument(shortName(path), pages)
		if err != nil {
			log.Fatalf("Chunk %s: %v", path, err)
		}
		fmt.Printf("%s: %d pages, %d chunks\n", shortName(path), len(pages), len(chunks))
		allChunks = append(allChunks, chunks...)
	}
	fmt.Printf("\nTotal: %d chunks\n\n", len(allChunks))

	fmt.Println("--- EMBEDDING CHUNKS ---")
	texts := make([]string, len(allChunks))
	for i, c := range allChunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		log.Fatalf("Embedding chunks failed: %v", err)
	}
	for i, c := range allChunks {
		if err := index.Add(c, vectors[i]); err != nil {
			log.Fatalf("Index add failed: %v", err)
		}
	}
	fmt.Printf("Embedded %d chunks (%d dims)\n\n", len(vectors), len(vectors[0]))

	queryVec, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		log.Fatalf("Embedding query failed: %v", err)
	}

	// Score everything, not just TopK, so weak matches are visible too.
	matches := index.Search(queryVec, len(allChunks))

	fmt.Println("-" + strings.Repeat("-", 79))
	fmt.Printf("SCORES (TopK in production: %d)\n", cfg.Pipeline.TopK)
	fmt.Println("-" + strings.Repeat("-", 79))
	fmt.Printf("%-4s %-28s %-6s %-8s", "#", "Document", "Page", "Score")
	for _, floor := range scoreFloors {
		fmt.Printf(" @%.2f", floor)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 90))

	for i, m := range matches {
		name := m.Chunk.Document
		if len(name) > 26 {
			name = name[:23] + "..."
		}
		fmt.Printf("%-4d %-28s %-6d %-8.4f", i+1, name, m.Chunk.Page, m.Score)
		for _, floor := range scoreFloors {
			if m.Score >= floor {
				fmt.Print("   Y  ")
			} else {
				fmt.Print("   -  ")
			}
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Println("Summary by Score Floor:")
	for _, floor := range scoreFloors {
		count := 0
		for _, m := range matches {
			if m.Score >= floor {
				count++
			}
		}
		fmt.Printf("  Floor %.2f: %d chunks pass\n", floor, count)
	}
	fmt.Println()

	if len(matches) > 0 {
		best := matches[0]
		fmt.Printf(">> Best Match: %s page %d (Score: %.4f)\n", best.Chunk.Document, best.Chunk.Page, best.Score)
		fmt.Printf(">> Content Preview: %s\n", preview(best.Chunk.Text, 200))
	}
	fmt.Println()

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("ANALYSIS COMPLETE")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println()
	fmt.Println("Current System Configuration:")
	fmt.Printf("  TopK:          %d   (chunks handed to the model per question)\n", cfg.Pipeline.TopK)
	fmt.Printf("  ChunkSize:     %d\n", cfg.Pipeline.ChunkSize)
	fmt.Printf("  ChunkOverlap:  %d\n", cfg.Pipeline.ChunkOverlap)
	fmt.Println()
	fmt.Println("The chat chain applies no score floor: the TopK chunks are always")
	fmt.Println("sent. If the right passage ranks below TopK here, raise TOP_K or")
	fmt.Println("reduce CHUNK_SIZE so the passage stands alone.")
}

func shortName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func preview(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l]) + "..."
	}
	return s
}
