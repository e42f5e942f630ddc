// Package service orchestrates the rating and forecast pipeline around the
// pure computation core.
package service

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/openrink/puckcast/internal/metrics"
)

// BoardCache provides in-memory caching for rendered odds boards, keyed by
// snapshot checksum. Equal checksums guarantee identical recompute output,
// so a hit never serves stale probabilities.
type BoardCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewBoardCache creates a new board cache
func NewBoardCache(ttl, purgeInterval time.Duration) *BoardCache {
	return &BoardCache{
		cache: cache.New(ttl, purgeInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached board by snapshot checksum
func (bc *BoardCache) Get(checksum string) *Board {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if cached, found := bc.cache.Get(checksum); found {
		if board, ok := cached.(*Board); ok {
			bc.hitCount++
			bc.updateMetrics()
			return board
		}
	}

	bc.missCount++
	bc.updateMetrics()
	return nil
}

// Set stores a rendered board under its snapshot checksum
func (bc *BoardCache) Set(checksum string, board *Board) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.cache.Set(checksum, board, bc.ttl)
}

// Clear flushes the entire cache. Called after every recompute pass so the
// next board render reflects the new snapshot.
func (bc *BoardCache) Clear() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.cache.Flush()
}

// Stats returns cache statistics
func (bc *BoardCache) Stats() (hits, misses uint64, ratio float64) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	hits = bc.hitCount
	misses = bc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

func (bc *BoardCache) updateMetrics() {
	total := bc.hitCount + bc.missCount
	if total > 0 {
		metrics.UpdateBoardCacheHitRatio(float64(bc.hitCount) / float64(total))
	}
}
