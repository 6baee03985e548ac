package tablecache

import "testing"

func TestCacheHitReturnsSameEntryWithoutRebuild(t *testing.T) {
	c := New[string](4, nil)
	key := NewKey(0, []uint8{1, 2, 3}, nil)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss before any Put")
	}

	c.Put(key, "built-once")
	got, ok := c.Get(key)
	if !ok || got != "built-once" {
		t.Fatalf("expected cached value %q, got %q ok=%v", "built-once", got, ok)
	}

	// Same (order, lengths, alphabet) must hash to the same key, regardless
	// of how many times it's recomputed.
	again := NewKey(0, []uint8{1, 2, 3}, nil)
	if again != key {
		t.Fatal("NewKey is not stable for identical inputs")
	}
	if got, ok := c.Get(again); !ok || got != "built-once" {
		t.Fatalf("expected hit on recomputed key, got %q ok=%v", got, ok)
	}
}

func TestCacheDistinctKeysDoNotCollideByValue(t *testing.T) {
	c := New[int](4, nil)
	k1 := NewKey(0, []uint8{1, 2, 3}, nil)
	k2 := NewKey(1, []uint8{1, 2, 3}, nil) // different order byte
	k3 := NewExtKey(0, []uint8{1, 2, 3}, nil, []uint8{0, 1, 2}, 257)

	c.Put(k1, 1)
	c.Put(k2, 2)
	c.Put(k3, 3)

	for key, want := range map[Key]int{k1: 1, k2: 2, k3: 3} {
		got, ok := c.Get(key)
		if !ok || got != want {
			t.Fatalf("key %v: got %d ok=%v, want %d", key, got, ok, want)
		}
	}
}

func TestCacheEvictsUnderPressure(t *testing.T) {
	c := New[int](1, nil)
	keys := make([]Key, 0, 64)
	for i := 0; i < 64; i++ {
		k := NewKey(byte(i), []uint8{uint8(i)}, nil)
		keys = append(keys, k)
		c.Put(k, i)
	}

	misses := 0
	for _, k := range keys {
		if _, ok := c.Get(k); !ok {
			misses++
		}
	}
	if misses == 0 {
		t.Fatal("expected a size-1 cache fed 64 distinct keys to have evicted at least one entry")
	}
}
