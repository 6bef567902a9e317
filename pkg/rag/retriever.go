// Package rag scores a session's document chunks against a query embedding
// and assembles the best matches into context blocks for prompt injection.
// Everything here is pure computation: no I/O, deterministic for a given
// input, safe to call from any goroutine.
package rag

import (
	"math"
	"sort"
	"strings"

	"ai-docchat-be/pkg/store"
)

const (
	// DefaultTopK is used when the caller does not ask for a specific depth.
	DefaultTopK = 3

	minTopK = 1
	maxTopK = 5

	labelPreceding = "Preceding context:"
	labelMain      = "Main content:"
	labelFollowing = "Following context:"
)

// match ties a scored chunk back to the chunk list of its owning document so
// neighboring chunks can be recovered for context expansion.
type match struct {
	similarity float64
	index      int
	chunks     []string
}

// CosineSimilarity returns dot(a,b) / (|a|·|b|) accumulated in float64.
// Vectors of different lengths, empty vectors, and zero-magnitude vectors
// score 0 rather than erroring: a useless embedding must degrade retrieval,
// not break the chat turn that triggered it.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Retrieve returns up to clamp(topK, 1, 5) context blocks ordered by
// descending similarity of their matched chunk. Only chunks with a positive
// similarity and non-blank text participate; documents contribute chunk i
// only while both Chunks[i] and Embeddings[i] exist. An empty query, an empty
// corpus, or no positive match all yield an empty result, never an error.
func Retrieve(query []float32, docs store.SessionDocuments, topK int) []string {
	if len(query) == 0 || len(docs) == 0 {
		return nil
	}

	// Walk documents in id order so ties resolve the same way on every call.
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matches []match
	for _, id := range ids {
		doc := docs[id]
		pairs := doc.PairCount()
		for i := 0; i < pairs; i++ {
			if doc.IsBlankChunk(i) {
				continue
			}
			sim := CosineSimilarity(query, doc.Embeddings[i])
			if sim <= 0 {
				continue
			}
			matches = append(matches, match{similarity: sim, index: i, chunks: doc.Chunks})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	k := clampTopK(topK)
	if k > len(matches) {
		k = len(matches)
	}

	blocks := make([]string, 0, k)
	for _, m := range matches[:k] {
		blocks = append(blocks, contextBlock(m.chunks, m.index))
	}
	return blocks
}

// contextBlock renders the matched chunk together with its non-blank
// neighbors. Neighbors come from the full chunk list, so a chunk that never
// got an embedding can still appear as surrounding context.
func contextBlock(chunks []string, i int) string {
	parts := make([]string, 0, 3)
	if i > 0 && strings.TrimSpace(chunks[i-1]) != "" {
		parts = append(parts, labelPreceding+"\n"+chunks[i-1])
	}
	parts = append(parts, labelMain+"\n"+chunks[i])
	if i < len(chunks)-1 && strings.TrimSpace(chunks[i+1]) != "" {
		parts = append(parts, labelFollowing+"\n"+chunks[i+1])
	}
	return strings.Join(parts, "\n\n")
}

func clampTopK(topK int) int {
	if topK < minTopK {
		return minTopK
	}
	if topK > maxTopK {
		return maxTopK
	}
	return topK
}
