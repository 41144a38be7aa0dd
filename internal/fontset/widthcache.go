package fontset

import "github.com/hashicorp/golang-lru/v2/simplelru"

// WidthCache memoizes glyph advance widths for a long-running bar.
//
// Entries are keyed by (font index, codepoint), since one codepoint can
// have different advances in different fonts of the set. With maxSize <= 0
// the cache is a plain map that grows by one entry per distinct key;
// otherwise it is an LRU and inserting into a full cache evicts the least
// recently used width.
//
// The bar's render loop owns the cache; it is not safe for concurrent use.
type WidthCache struct {
	bounded   *simplelru.LRU[widthKey, int]
	unbounded map[widthKey]int
	maxSize   int
	stats     CacheStats
}

type widthKey struct {
	font int
	r    rune
}

// NewWidthCache returns a cache holding at most maxSize widths, or any
// number of them when maxSize <= 0.
func NewWidthCache(maxSize int) *WidthCache {
	c := &WidthCache{maxSize: maxSize}
	if maxSize <= 0 {
		c.unbounded = make(map[widthKey]int)
		return c
	}
	// NewLRU only fails for a non-positive size.
	c.bounded, _ = simplelru.NewLRU(maxSize, func(widthKey, int) {
		c.stats.Evictions++
	})
	return c
}

// Lookup returns the cached width of r in font, calling measure on a miss
// and storing its result.
func (c *WidthCache) Lookup(font int, r rune, measure func(rune) int) int {
	if w, ok := c.Get(font, r); ok {
		return w
	}
	w := measure(r)
	c.Put(font, r, w)
	return w
}

// Get returns the cached width and marks it recently used.
func (c *WidthCache) Get(font int, r rune) (int, bool) {
	key := widthKey{font, r}
	var (
		w  int
		ok bool
	)
	if c.bounded != nil {
		w, ok = c.bounded.Get(key)
	} else {
		w, ok = c.unbounded[key]
	}
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return w, ok
}

// Put stores a width. Storing an existing key overwrites it without
// evicting anything.
func (c *WidthCache) Put(font int, r rune, width int) {
	key := widthKey{font, r}
	if c.bounded != nil {
		c.bounded.Add(key, width)
		return
	}
	c.unbounded[key] = width
}

// Len returns the number of cached widths.
func (c *WidthCache) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.unbounded)
}

// Stats returns a snapshot of the cache counters.
func (c *WidthCache) Stats() CacheStats {
	s := c.stats
	s.Size = c.Len()
	s.MaxSize = c.maxSize
	return s
}

// CacheStats describes cache occupancy and effectiveness.
type CacheStats struct {
	Size      int // cached widths
	MaxSize   int // 0 or negative means unbounded
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits as a percentage of lookups, 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	lookups := s.Hits + s.Misses
	if lookups == 0 {
		return 0
	}
	return 100 * float64(s.Hits) / float64(lookups)
}
