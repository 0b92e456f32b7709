package marketdata

import (
	"sync"

	"optionslab/types"
)

// DefaultCacheDepth is how many recent ticks are retained per symbol.
const DefaultCacheDepth = 1000

// Cache keeps a fixed-depth ring of the most recent ticks per symbol,
// oldest evicted first. Writes come from a single feed goroutine per
// symbol; reads may come from anywhere, hence the RWMutex.
type Cache struct {
	mu    sync.RWMutex
	depth int
	rings map[string]*ring
}

type ring struct {
	buf  []types.MarketTick
	pos  int
	full bool
}

func NewCache(depth int) *Cache {
	if depth <= 0 {
		depth = DefaultCacheDepth
	}
	return &Cache{
		depth: depth,
		rings: make(map[string]*ring),
	}
}

// Add appends a tick to its symbol's ring, evicting the oldest when full.
func (c *Cache) Add(tick types.MarketTick) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rings[tick.Symbol]
	if !ok {
		r = &ring{buf: make([]types.MarketTick, c.depth)}
		c.rings[tick.Symbol] = r
	}
	r.buf[r.pos] = tick
	r.pos = (r.pos + 1) % len(r.buf)
	if r.pos == 0 && !r.full {
		r.full = true
	}
}

// Latest returns the most recent tick for a symbol.
func (c *Cache) Latest(symbol string) (types.MarketTick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rings[symbol]
	if !ok || (r.pos == 0 && !r.full) {
		return types.MarketTick{}, false
	}
	idx := (r.pos - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx], true
}

// History returns up to n most recent ticks for a symbol, oldest first.
func (c *Cache) History(symbol string, n int) []types.MarketTick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rings[symbol]
	if !ok {
		return nil
	}
	count := r.len()
	if n > count {
		n = count
	}
	if n <= 0 {
		return nil
	}

	out := make([]types.MarketTick, 0, n)
	start := count - n
	for i := start; i < count; i++ {
		out = append(out, r.buf[r.index(i)])
	}
	return out
}

// Len returns the number of cached ticks for a symbol.
func (c *Cache) Len(symbol string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.rings[symbol]; ok {
		return r.len()
	}
	return 0
}

func (r *ring) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.pos
}

// index converts a logical index (0 = oldest) to a buffer position.
func (r *ring) index(logical int) int {
	if r.full {
		return (r.pos + logical) % len(r.buf)
	}
	return logical
}
