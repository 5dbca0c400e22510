package cache

import (
	"sort"
	"sync"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// MarketCache
//
// Holds the most recently fetched coin list per view slice and the latest
// global snapshot.
// Entries are replaced only on successful fetches; a failed fetch leaves the
// prior data untouched for already-rendered views. Ephemeral process-local
// state, rebuilt by the refresh schedulers.
// -----------------------------------------------------------------------------

type MarketCache struct {
	mu        sync.RWMutex
	coinPages map[string][]models.MCoin
	global    models.MMarketSnapshot
	hasGlobal bool
}

// -----------------------------------------------------------------------------

func NewMarketCache() *MarketCache {
	return &MarketCache{
		coinPages: make(map[string][]models.MCoin),
	}
}

// -----------------------------------------------------------------------------

// SetCoins replaces the cached list for one view slice. Schedulers for
// different views may land concurrently; each writes only its own slice.
func (c *MarketCache) SetCoins(view string, coins []models.MCoin) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]models.MCoin, len(coins))
	copy(copied, coins)
	c.coinPages[view] = copied
}

// -----------------------------------------------------------------------------

// Coins returns the cached list for a view slice, or nil if never fetched.
func (c *MarketCache) Coins(view string) []models.MCoin {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coins, ok := c.coinPages[view]
	if !ok {
		return nil
	}

	copied := make([]models.MCoin, len(coins))
	copy(copied, coins)
	return copied
}

// -----------------------------------------------------------------------------

// Views lists every view slice that currently holds fetched data, in a
// stable order.
func (c *MarketCache) Views() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	views := make([]string, 0, len(c.coinPages))
	for view := range c.coinPages {
		views = append(views, view)
	}
	sort.Strings(views)
	return views
}

// -----------------------------------------------------------------------------

// SetGlobal replaces the global snapshot wholesale.
func (c *MarketCache) SetGlobal(snap models.MMarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.global = snap
	c.hasGlobal = true
}

// -----------------------------------------------------------------------------

// Global returns the latest snapshot and whether one has ever been fetched.
func (c *MarketCache) Global() (models.MMarketSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.global, c.hasGlobal
}
