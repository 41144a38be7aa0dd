package fontset

import "testing"

func TestWidthCacheLookup(t *testing.T) {
	c := NewWidthCache(0)
	calls := 0
	measure := func(r rune) int {
		calls++
		return int(r) % 10
	}

	first := c.Lookup(0, 'a', measure)
	second := c.Lookup(0, 'a', measure)
	if first != second {
		t.Errorf("Lookup not idempotent: %d then %d", first, second)
	}
	if calls != 1 {
		t.Errorf("measure called %d times, want 1", calls)
	}
}

func TestWidthCacheKeysByFont(t *testing.T) {
	c := NewWidthCache(0)
	c.Put(0, 'a', 6)
	c.Put(1, 'a', 11)

	if w, ok := c.Get(0, 'a'); !ok || w != 6 {
		t.Errorf("Get(0, 'a') = %d, %v; want 6, true", w, ok)
	}
	if w, ok := c.Get(1, 'a'); !ok || w != 11 {
		t.Errorf("Get(1, 'a') = %d, %v; want 11, true", w, ok)
	}
	if _, ok := c.Get(2, 'a'); ok {
		t.Error("Get(2, 'a') hit, want miss")
	}
}

func TestWidthCacheEviction(t *testing.T) {
	c := NewWidthCache(2)
	c.Put(0, 'a', 1)
	c.Put(0, 'b', 2)
	c.Get(0, 'a') // 'b' is now least recently used
	c.Put(0, 'c', 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(0, 'b'); ok {
		t.Error("'b' should have been evicted")
	}
	if _, ok := c.Get(0, 'a'); !ok {
		t.Error("'a' should still be cached")
	}
	if _, ok := c.Get(0, 'c'); !ok {
		t.Error("'c' should be cached")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestWidthCacheUnbounded(t *testing.T) {
	c := NewWidthCache(0)
	for r := rune(0); r < 5000; r++ {
		c.Put(0, r, 1)
	}
	if c.Len() != 5000 {
		t.Errorf("Len() = %d, want 5000", c.Len())
	}
	if got := c.Stats().Evictions; got != 0 {
		t.Errorf("Evictions = %d, want 0", got)
	}
}

func TestWidthCachePutOverwrites(t *testing.T) {
	c := NewWidthCache(1)
	c.Put(0, 'a', 1)
	c.Put(0, 'a', 7)
	if w, _ := c.Get(0, 'a'); w != 7 {
		t.Errorf("Get(0, 'a') = %d, want 7", w)
	}
	if got := c.Stats().Evictions; got != 0 {
		t.Errorf("overwrite evicted %d entries", got)
	}
}

func TestWidthCacheStats(t *testing.T) {
	c := NewWidthCache(4)
	c.Lookup(0, 'a', func(rune) int { return 6 })
	c.Lookup(0, 'a', func(rune) int { return 6 })

	stats := c.Stats()
	if stats.Size != 1 || stats.MaxSize != 4 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if got := stats.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}
	if (CacheStats{}).HitRate() != 0 {
		t.Error("HitRate() of empty stats should be 0")
	}
}

func TestWidthCacheBoundedChurn(t *testing.T) {
	tests := []struct {
		name          string
		maxSize       int
		inserts       int
		wantLen       int
		wantEvictions uint64
	}{
		{"under_capacity", 8, 5, 5, 0},
		{"at_capacity", 8, 8, 8, 0},
		{"over_capacity", 8, 20, 8, 12},
		{"single_slot", 1, 3, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWidthCache(tt.maxSize)
			for i := range tt.inserts {
				c.Lookup(i%3, rune('a'+i), func(r rune) int { return int(r) })
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
			stats := c.Stats()
			if stats.Evictions != tt.wantEvictions {
				t.Errorf("Evictions = %d, want %d", stats.Evictions, tt.wantEvictions)
			}
			if stats.Misses != uint64(tt.inserts) || stats.Hits != 0 {
				t.Errorf("Hits/Misses = %d/%d, want 0/%d", stats.Hits, stats.Misses, tt.inserts)
			}
			last := tt.inserts - 1
			if w, ok := c.Get(last%3, rune('a'+last)); !ok || w != int('a'+last) {
				t.Errorf("most recent width = %d, %v; want %d, true", w, ok, 'a'+last)
			}
		})
	}
}
