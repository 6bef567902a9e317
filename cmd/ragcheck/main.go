// ragcheck exercises the retrieval pipeline end to end without a server:
// split, embed, score, assemble. Point it at your own files to see exactly
// what a chat request would retrieve from them.
//
//	go run ./cmd/ragcheck [file.txt ...]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/rag"
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const sampleAlpha = `Alpha Engineering Handbook.
Deploys happen every Tuesday at 10:00 UTC. The deploy owner rotates weekly
and is listed in the on-call calendar. Rollbacks require approval from the
release manager.`

const sampleBeta = `Beta Team Expense Policy.
Meals during travel are reimbursed up to 45 EUR per day. Hotel bookings above
180 EUR per night need prior written approval from the team lead.`

var probeQueries = []string{
	"when do deploys happen?",
	"how much can I spend on meals?",
	"who approves rollbacks?",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using system env")
	}
	cfg := config.Load()

	// Same chain the server wires, minus the caches: every probe should hit
	// the provider so the diagnostic reflects live behavior.
	var networkProvider embedding.Provider
	configured := true
	if cfg.Ai.Provider == "ollama" {
		networkProvider = embedding.NewOllamaProvider(cfg.Ai.BaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.RequestTimeout)
	} else {
		networkProvider = embedding.NewOpenAIProvider(cfg.Ai.APIKey, cfg.Ai.BaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.RequestTimeout)
		configured = cfg.Ai.APIKey != ""
	}
	provider := embedding.NewFallbackProvider(networkProvider, configured)

	fmt.Println("=" + strings.Repeat("=", 79))
	color.Cyan("RAG RETRIEVAL DIAGNOSTIC TOOL")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Printf("Provider: %s, embedding model: %s, configured: %v\n", cfg.Ai.Provider, cfg.Ai.EmbeddingModel, configured)
	if !configured {
		color.Yellow("No credential found: embeddings will be random fallback vectors, similarities meaningless")
	}
	fmt.Println()

	ctx := context.Background()
	docs := loadDocuments(ctx, provider, cfg)

	fmt.Printf("Indexed %d documents:\n", len(docs))
	for id, doc := range docs {
		fmt.Printf("  [%s] %s (%d chunks, %d embedded)\n", id, doc.Filename, len(doc.Chunks), len(doc.Embeddings))
	}
	fmt.Println()

	for _, query := range probeQueries {
		fmt.Println("-" + strings.Repeat("-", 79))
		color.Yellow("QUERY: %q", query)
		fmt.Println("-" + strings.Repeat("-", 79))

		queryVector, err := provider.Embed(ctx, query)
		if err != nil {
			color.Red("Embedding failed: %v", err)
			continue
		}

		printScores(docs, queryVector)

		blocks := rag.Retrieve(queryVector, docs, rag.DefaultTopK)
		if len(blocks) == 0 {
			color.Red("No context blocks retrieved")
			continue
		}
		color.Green("Retrieved %d context block(s):", len(blocks))
		for i, block := range blocks {
			fmt.Printf("\n### Block %d\n%s\n", i+1, block)
		}
		fmt.Println()
	}
}

func loadDocuments(ctx context.Context, provider embedding.Provider, cfg *config.Config) store.SessionDocuments {
	docs := store.SessionDocuments{}

	paths := os.Args[1:]
	if len(paths) == 0 {
		log.Println("No files given, using built-in samples")
		docs["alpha"] = indexText(ctx, provider, cfg, "alpha", "alpha.txt", sampleAlpha)
		docs["beta"] = indexText(ctx, provider, cfg, "beta", "beta.txt", sampleBeta)
		return docs
	}

	for i, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Cannot read %s: %v", path, err)
		}
		id := fmt.Sprintf("doc-%d", i+1)
		docs[id] = indexText(ctx, provider, cfg, id, filepath.Base(path), string(content))
	}
	return docs
}

func indexText(ctx context.Context, provider embedding.Provider, cfg *config.Config, id, filename, text string) *store.Document {
	chunks := utils.SplitText(text, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	embeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			embeddings = append(embeddings, nil)
			continue
		}
		vector, err := provider.Embed(ctx, chunk)
		if err != nil {
			log.Fatalf("Embedding failed for %s: %v", filename, err)
		}
		embeddings = append(embeddings, vector)
	}
	return &store.Document{
		ID:         id,
		Filename:   filename,
		Chunks:     chunks,
		Embeddings: embeddings,
		CreatedAt:  time.Now(),
	}
}

type scoredChunk struct {
	docID string
	index int
	score float64
	text  string
}

func printScores(docs store.SessionDocuments, queryVector []float32) {
	var scored []scoredChunk
	for id, doc := range docs {
		for i := 0; i < doc.PairCount(); i++ {
			scored = append(scored, scoredChunk{
				docID: id,
				index: i,
				score: rag.CosineSimilarity(queryVector, doc.Embeddings[i]),
				text:  doc.Chunks[i],
			})
		}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	fmt.Println("\nAll chunk scores:")
	for _, s := range scored {
		preview := s.text
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("  %.4f  [%s #%d] %s\n", s.score, s.docID, s.index, strings.ReplaceAll(preview, "\n", " "))
	}
	fmt.Println()
}
