package llm

import (
	"context"
	"fmt"
	"io"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any chat model backend.
type Provider interface {
	// ChatStream sends the history with streaming enabled and returns the
	// provider's raw line-oriented body. The caller owns the reader and must
	// close it; cancel ctx to abort generation early.
	ChatStream(ctx context.Context, history []Message, options ...Option) (io.ReadCloser, error)
}

// ProviderError is a non-success response from the chat provider. Status and
// body are kept verbatim so callers can surface them for diagnosis.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Body)
}
