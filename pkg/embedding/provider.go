package embedding

import (
	"context"
	"errors"
)

// FallbackDimensions is the width of the pseudo-embedding used when no real
// provider result is available. It matches the default provider models so a
// mixed corpus still produces comparable vectors.
const FallbackDimensions = 1536

// ErrEmptyText rejects embed calls whose text is blank after trimming.
var ErrEmptyText = errors.New("cannot embed empty text")

// Provider produces one embedding vector for one text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
