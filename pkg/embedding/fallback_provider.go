package embedding

import (
	"context"
	"log"
	"math/rand"
	"strings"
)

// FallbackProvider keeps the embedding path available no matter what the
// delegate does: blank text is still rejected, but a missing credential or
// any delegate failure (network error, non-2xx, malformed body) produces a
// throwaway pseudo-embedding instead of an error. One attempt, no retries.
// Similarities against fallback vectors carry no meaning; they only keep
// indexing and chat moving while the provider is down.
type FallbackProvider struct {
	delegate   Provider
	configured bool
}

// NewFallbackProvider wraps delegate. configured reports whether the delegate
// has the credentials it needs; when false the delegate is never called.
func NewFallbackProvider(delegate Provider, configured bool) *FallbackProvider {
	return &FallbackProvider{
		delegate:   delegate,
		configured: configured,
	}
}

func (p *FallbackProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if !p.configured || p.delegate == nil {
		log.Printf("[WARN] embedding provider not configured, using fallback vector")
		return FallbackVector(), nil
	}

	vec, err := p.delegate.Embed(ctx, text)
	if err != nil {
		log.Printf("[WARN] embedding call failed, using fallback vector: %v", err)
		return FallbackVector(), nil
	}
	return vec, nil
}

// FallbackVector returns FallbackDimensions uniform draws on [0,1). Each call
// yields a different vector; deliberately unseeded and unnormalized.
func FallbackVector() []float32 {
	vec := make([]float32, FallbackDimensions)
	for i := range vec {
		vec[i] = rand.Float32()
	}
	return vec
}

var _ Provider = (*FallbackProvider)(nil)
