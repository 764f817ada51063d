package directory

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// PairCache memoizes the CityStates projection for the life of the process.
// The directory changes rarely, so the snapshot is built on first use and
// kept until restart. Initialization is idempotent: concurrent first calls
// may each query the store, and last-write-wins via the atomic pointer keeps
// the cache consistent without a lock.
type PairCache struct {
	store Store
	pairs atomic.Pointer[[]CityState]
}

// NewPairCache creates a cache over the given store.
func NewPairCache(store Store) *PairCache {
	return &PairCache{store: store}
}

// Pairs returns the memoized city/state pairs, building them on first use.
func (c *PairCache) Pairs(ctx context.Context) ([]CityState, error) {
	if p := c.pairs.Load(); p != nil {
		return *p, nil
	}

	pairs, err := c.store.CityStates(ctx)
	if err != nil {
		return nil, err
	}
	c.pairs.Store(&pairs)
	zap.L().Debug("directory: city/state cache built", zap.Int("pairs", len(pairs)))
	return pairs, nil
}

// Invalidate drops the snapshot so the next Pairs call rebuilds it. Used
// after bulk imports.
func (c *PairCache) Invalidate() {
	c.pairs.Store(nil)
}
