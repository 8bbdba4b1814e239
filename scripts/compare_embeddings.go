//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding/jina"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// Compares the configured embedding providers on a small semantic
// probe: two paraphrases and one unrelated sentence. A provider is
// usable for retrieval when the paraphrase pair scores clearly above
// the unrelated pair. Providers without keys are skipped.
// Run with `go run scripts/compare_embeddings.go`.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	fmt.Println("--- Initializing Providers ---")
	providers := map[string]embedding.Provider{
		"OLLAMA": embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel, cfg.Ai.RequestTimeout),
	}
	if cfg.Ai.GoogleAPIKey != "" {
		providers["GEMINI"] = embedding.NewGeminiProvider(cfg.Ai.GoogleAPIKey, cfg.Ai.GeminiEmbedModel, cfg.Ai.RequestTimeout)
	} else {
		fmt.Println("GOOGLE_API_KEY not set, skipping Gemini")
	}
	if cfg.Ai.JinaAPIKey != "" {
		providers["JINA"] = jina.NewJinaProvider(cfg.Ai.JinaAPIKey, cfg.Ai.RequestTimeout)
	} else {
		fmt.Println("JINA_API_KEY not set, skipping Jina")
	}

	texts := []string{
		"The quick brown fox jumps over the lazy dog",      // Original
		"A fast brown fox leaps over a sleepy canine",      // Semantically similar
		"Quantum physics explores the nature of particles", // Completely different
	}

	fmt.Println("\n--- Generating Embeddings ---")
	fmt.Println("(Higher is better, 1.0 = identical)")

	for name, p := range providers {
		vectors, err := p.EmbedDocuments(ctx, texts)
		if err != nil {
			log.Printf("Error %s: %v", name, err)
			continue
		}

		fmt.Printf("\n[%s] (%d dims)\n", name, len(vectors[0]))
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar):   %.4f\n", vectorindex.CosineSimilarity(vectors[0], vectors[1]))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", vectorindex.CosineSimilarity(vectors[0], vectors[2]))
	}

	fmt.Println("\n--- Conclusion ---")
	fmt.Println("A provider is retrieval-ready when the similar pair scores well above the different pair.")
}
