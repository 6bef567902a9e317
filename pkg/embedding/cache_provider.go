package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	localCacheExpiration = 1 * time.Hour
	localCachePurge      = 10 * time.Minute
	remoteCacheTTL       = 24 * time.Hour
)

// CacheProvider memoizes delegate results keyed by a content hash: a
// process-local go-cache first, then an optional shared Redis. Cache trouble
// never fails an embed call; the delegate is simply asked again. Wrap the
// network provider directly so fallback vectors are never cached.
type CacheProvider struct {
	delegate Provider
	local    *cache.Cache
	remote   *redis.Client
}

// NewCacheProvider builds the cache layer. remote may be nil, in which case
// only the in-process cache is used.
func NewCacheProvider(delegate Provider, remote *redis.Client) *CacheProvider {
	return &CacheProvider{
		delegate: delegate,
		local:    cache.New(localCacheExpiration, localCachePurge),
		remote:   remote,
	}
}

func (p *CacheProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	if hit, ok := p.local.Get(key); ok {
		if vec, ok := hit.([]float32); ok {
			return vec, nil
		}
	}
	if vec, ok := p.remoteGet(ctx, key); ok {
		p.local.Set(key, vec, cache.DefaultExpiration)
		return vec, nil
	}

	vec, err := p.delegate.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	p.local.Set(key, vec, cache.DefaultExpiration)
	p.remoteSet(ctx, key, vec)
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (p *CacheProvider) remoteGet(ctx context.Context, key string) ([]float32, bool) {
	if p.remote == nil {
		return nil, false
	}

	raw, err := p.remote.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] embedding cache read failed: %v", err)
		}
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		log.Printf("[WARN] embedding cache entry corrupt, ignoring: %v", err)
		return nil, false
	}
	return vec, true
}

func (p *CacheProvider) remoteSet(ctx context.Context, key string, vec []float32) {
	if p.remote == nil {
		return
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := p.remote.Set(ctx, key, data, remoteCacheTTL).Err(); err != nil {
		log.Printf("[WARN] embedding cache write failed: %v", err)
	}
}

var _ Provider = (*CacheProvider)(nil)
