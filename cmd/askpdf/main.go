package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding/jina"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm/factory"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/store"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex/filestore"
)

// askpdf runs the ingest and retrieval pipeline in-process against the
// same fingerprint cache the server uses, so a set of PDFs indexed here
// is already warm for the web UI and vice versa.
func main() {
	var pdfPaths []string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "askpdf",
		Short: "Ask questions about PDF documents from the terminal",
		Long:  "Ingests one or more PDFs (or a directory of them) through the extract/chunk/embed pipeline and answers questions with retrieved context. Re-runs against the same files hit the index cache and skip embedding.",
	}
	rootCmd.PersistentFlags().StringArrayVarP(&pdfPaths, "pdf", "f", nil, "PDF file or directory (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log retrieval diagnostics to stderr")

	rootCmd.AddCommand(createAskCommand(&pdfPaths, &verbose))
	rootCmd.AddCommand(createReplCommand(&pdfPaths, &verbose))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func createAskCommand(pdfPaths *[]string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ingest the given PDFs and answer a single question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(*verbose)
			if err != nil {
				return err
			}
			if err := p.ingest(ctx, *pdfPaths); err != nil {
				return err
			}
			return p.ask(ctx, args[0])
		},
	}
}

func createReplCommand(pdfPaths *[]string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Ingest the given PDFs and start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(*verbose)
			if err != nil {
				return err
			}
			if err := p.ingest(ctx, *pdfPaths); err != nil {
				return err
			}

			color.Cyan("Ask away (empty line or Ctrl-D to quit):")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					break
				}
				if err := p.ask(ctx, question); err != nil {
					color.Red("Error: %v", err)
				}
			}
			return scanner.Err()
		},
	}
}

// document is one extracted PDF awaiting chunking.
type document struct {
	name  string
	pages []entity.PageText
}

// pipeline holds the in-process equivalents of the server's ingest and
// chat services, minus sessions: the conversation lives for one run.
type pipeline struct {
	cfg         *config.Config
	extractor   *pdf.Extractor
	splitter    *textsplit.Splitter
	embedder    embedding.Provider
	indexStore  *filestore.Store
	chain       *rag.Chain
	fingerprint string
	turns       []store.Turn
}

func newPipeline(verbose bool) (*pipeline, error) {
	cfg := config.Load()

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel, cfg.Ai.RequestTimeout)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embedder = jina.NewJinaProvider(cfg.Ai.JinaAPIKey, cfg.Ai.RequestTimeout)
	} else {
		embedder = embedding.NewGeminiProvider(cfg.Ai.GoogleAPIKey, cfg.Ai.GeminiEmbedModel, cfg.Ai.RequestTimeout)
	}

	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		return nil, err
	}

	indexStore, err := filestore.NewStore(cfg.Index.CacheDir)
	if err != nil {
		return nil, err
	}

	ragLog := log.New(io.Discard, "", 0)
	if verbose {
		ragLog = log.New(os.Stderr, "[RAG] ", log.LstdFlags)
	}

	retriever := rag.NewRetriever(embedder, indexStore)
	chain := rag.NewChain(retriever, llmProvider, rag.Config{
		TopK:          cfg.Pipeline.TopK,
		HistoryWindow: cfg.Pipeline.HistoryWindow,
		Temperature:   cfg.Ai.Temperature,
	}, ragLog)

	return &pipeline{
		cfg:        cfg,
		extractor:  pdf.NewExtractor(),
		splitter:   textsplit.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap),
		embedder:   embedder,
		indexStore: indexStore,
		chain:      chain,
	}, nil
}

func (p *pipeline) ingest(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("at least one --pdf file or directory is required")
	}
	files, err := resolvePDFs(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDFs found under %v", paths)
	}

	var (
		hashes    []string
		documents []document
	)
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		pages, err := p.extractor.Extract(raw)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		name := filepath.Base(path)
		documents = append(documents, document{name: name, pages: pages})
		hashes = append(hashes, vectorindex.ContentHash(raw))
		color.Yellow("Extracted %s (%d pages)", name, len(pages))
	}

	p.fingerprint = vectorindex.Fingerprint(hashes)

	hit, err := p.indexStore.Has(ctx, p.fingerprint)
	if err != nil {
		return err
	}
	if hit {
		manifest, err := p.indexStore.Manifest(ctx, p.fingerprint)
		if err != nil {
			return err
		}
		color.Green("✓ Index cache hit (%s): %d chunks, no embedding calls", shortFingerprint(p.fingerprint), manifest.ChunkCount)
		return nil
	}

	var (
		chunks []entity.Chunk
		stats  []vectorindex.DocumentStat
	)
	for _, doc := range documents {
		docChunks, err := p.splitter.SplitDocument(doc.name, doc.pages)
		if err != nil {
			return err
		}
		chunks = append(chunks, docChunks...)
		stats = append(stats, vectorindex.DocumentStat{
			Name:   doc.name,
			Pages:  len(doc.pages),
			Chunks: len(docChunks),
		})
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	color.Yellow("Embedding %d chunks via %s ...", len(chunks), p.cfg.Ai.EmbeddingProvider)
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	manifest := vectorindex.Manifest{
		Fingerprint: p.fingerprint,
		Documents:   stats,
	}
	if err := p.indexStore.Build(ctx, manifest, chunks, vectors); err != nil {
		return err
	}

	color.Green("✓ Index built (%s): %d chunks cached", shortFingerprint(p.fingerprint), len(chunks))
	return nil
}

func (p *pipeline) ask(ctx context.Context, question string) error {
	answer, err := p.chain.Ask(ctx, p.fingerprint, question, p.turns)
	if err != nil {
		return err
	}

	p.turns = append(p.turns, store.Turn{Question: question, Answer: answer.Text})

	fmt.Println()
	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		color.Cyan("\nSources:")
		for _, s := range answer.Sources {
			color.Cyan("  - %s, page %d (score %.3f)", s.Document, s.Page, s.Score)
		}
	}
	fmt.Println()
	return nil
}

func resolvePDFs(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.pdf"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
