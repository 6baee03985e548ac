// Package tablecache memoizes built huffman.Table / huffman.TableExt
// values keyed by the identity of the length table (and, for extended
// tables, the extras/offset) that produced them.
//
// Rebuilding a canonical table is the single most expensive operation the
// core performs (SPEC_FULL.md's §2 budget puts TableBuilder at ~35% of the
// source). Callers that rebuild the same handful of tables repeatedly —
// HTTP/2 HPACK header blocks churning through a small set of recurring
// length tables, or a multi-scan JPEG reusing one of its 4 DC/AC table
// slots every MCU — can skip that cost for a table they have already
// built.
//
// Grounded on internal/spinner/concurrent.go's Pool.bcache: the same
// tinylfu.New[K, V](size, samples, hasher, tinylfu.OnEvict(fn)) call shape,
// the same maphash/xxhash-style "hash the key once, use a plain integer as
// the cache key" pattern, generalised from byte-range blocks to Huffman
// tables.
package tablecache

import (
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// Key identifies a length table uniquely enough for caching purposes: the
// xxhash of the canonicalised (order, lengths, alphabet) bytes. Collisions
// are treated as cache misses' problem, not correctness's — callers must
// still hold the real lengths to rebuild on a miss, exactly like any other
// memoization layer.
type Key uint64

// NewKey hashes order, lengths and an optional alphabet into a cache Key.
// Extended tables fold extras and offset in too, via NewExtKey.
func NewKey(order byte, lengths []uint8, alphabet []uint16) Key {
	h := xxhash.New()
	h.Write([]byte{order})
	h.Write(lengths)
	for _, a := range alphabet {
		h.Write([]byte{byte(a), byte(a >> 8)})
	}
	return Key(h.Sum64())
}

// NewExtKey additionally folds in the extras table and offset. extrasBits is
// a byte encoding of the extras table; huffman.TableCache passes each
// entry's Bits followed by its Base.
func NewExtKey(order byte, lengths []uint8, alphabet []uint16, extrasBits []uint8, offset uint16) Key {
	h := xxhash.New()
	h.Write([]byte{order, byte(offset), byte(offset >> 8)})
	h.Write(lengths)
	for _, a := range alphabet {
		h.Write([]byte{byte(a), byte(a >> 8)})
	}
	h.Write(extrasBits)
	return Key(h.Sum64())
}

func hashKey(k Key) uint64 { return uint64(k) }

// Cache[T] memoizes built tables of one concrete type (huffman.Table or
// huffman.TableExt) behind a TinyLFU admission policy.
type Cache[T any] struct {
	log *slog.Logger
	c   *tinylfu.T[Key, T]
}

// New creates a Cache holding up to size entries. The TinyLFU sample count
// is fixed at 10x size, following the convention the teacher's Pool uses
// for both its block and reader caches.
func New[T any](size int, log *slog.Logger) *Cache[T] {
	if log == nil {
		log = slog.Default()
	}
	cc := &Cache[T]{log: log}
	cc.c = tinylfu.New[Key, T](size, size*10, hashKey, tinylfu.OnEvict(cc.onEvict))
	return cc
}

// Get returns the cached table for key, if present.
func (c *Cache[T]) Get(key Key) (T, bool) {
	return c.c.Get(key)
}

// Put stores a freshly built table under key.
func (c *Cache[T]) Put(key Key, table T) {
	c.c.Add(key, table)
}

func (c *Cache[T]) onEvict(key Key, _ T) {
	c.log.Debug("tablecache: evicted", "key", uint64(key))
}
