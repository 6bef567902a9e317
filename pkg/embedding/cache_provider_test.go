package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestCacheProviderMemoizesByContent(t *testing.T) {
	delegate := &stubProvider{vec: []float32{0.5, 0.5}}
	provider := NewCacheProvider(delegate, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		vec, err := provider.Embed(ctx, "same text")
		if err != nil {
			t.Fatalf("Embed returned error: %v", err)
		}
		if len(vec) != 2 {
			t.Fatalf("Embed returned %d dims, want 2", len(vec))
		}
	}
	if delegate.calls != 1 {
		t.Errorf("delegate called %d times for identical text, want 1", delegate.calls)
	}

	if _, err := provider.Embed(ctx, "different text"); err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if delegate.calls != 2 {
		t.Errorf("delegate called %d times after new text, want 2", delegate.calls)
	}
}

func TestCacheProviderDoesNotCacheFailures(t *testing.T) {
	delegate := &stubProvider{err: errors.New("boom")}
	provider := NewCacheProvider(delegate, nil)

	ctx := context.Background()
	if _, err := provider.Embed(ctx, "text"); err == nil {
		t.Fatal("Embed swallowed the delegate error")
	}
	if _, err := provider.Embed(ctx, "text"); err == nil {
		t.Fatal("Embed swallowed the delegate error")
	}
	if delegate.calls != 2 {
		t.Errorf("delegate called %d times, want 2 (failures must not be cached)", delegate.calls)
	}
}
