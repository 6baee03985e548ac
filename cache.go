package huffman

import (
	"log/slog"

	"github.com/huffcodec/core/internal/tablecache"
)

// TableCache memoizes built LSB/MSB tables by the identity of the length
// (and alphabet) table that produced them, so a caller that rebuilds the
// same table repeatedly (HPACK's small set of recurring header-field
// length tables, a multi-scan JPEG's 4 DC/AC table slots) pays the
// construction cost once. See internal/tablecache for the eviction policy.
type TableCache struct {
	lsb *tablecache.Cache[*Table]
	msb *tablecache.Cache[*Table]
	ext *tablecache.Cache[*TableExt]
}

// NewTableCache creates a TableCache holding up to size entries per order
// (LSB, MSB, extended).
func NewTableCache(size int, log *slog.Logger) *TableCache {
	return &TableCache{
		lsb: tablecache.New[*Table](size, log),
		msb: tablecache.New[*Table](size, log),
		ext: tablecache.New[*TableExt](size, log),
	}
}

// BuildLSB is BuildLSB with memoization: it returns a cached Table if an
// identical (lengths, alphabet) pair was built before, and populates the
// cache on a miss.
func (tc *TableCache) BuildLSB(lengths []uint8, alphabet []uint16) (*Table, error) {
	key := tablecache.NewKey(byte(LSB), lengths, alphabet)
	if t, ok := tc.lsb.Get(key); ok {
		return t, nil
	}
	t, err := BuildLSB(lengths, alphabet)
	if err != nil {
		return nil, err
	}
	tc.lsb.Put(key, t)
	return t, nil
}

// BuildMSB is BuildMSB with memoization, mirroring BuildLSB.
func (tc *TableCache) BuildMSB(lengths []uint8, alphabet []uint16) (*Table, error) {
	key := tablecache.NewKey(byte(MSB), lengths, alphabet)
	if t, ok := tc.msb.Get(key); ok {
		return t, nil
	}
	t, err := BuildMSB(lengths, alphabet)
	if err != nil {
		return nil, err
	}
	tc.msb.Put(key, t)
	return t, nil
}

// BuildLSBExt is BuildLSBExt with memoization, mirroring BuildLSB.
func (tc *TableCache) BuildLSBExt(lengths []uint8, alphabet []uint16, extras []ExtraSpec, offset uint16) (*TableExt, error) {
	extrasKey := make([]uint8, 0, 5*len(extras))
	for _, e := range extras {
		extrasKey = append(extrasKey, e.Bits, byte(e.Base), byte(e.Base>>8), byte(e.Base>>16), byte(e.Base>>24))
	}
	key := tablecache.NewExtKey(byte(LSB), lengths, alphabet, extrasKey, offset)
	if t, ok := tc.ext.Get(key); ok {
		return t, nil
	}
	t, err := BuildLSBExt(lengths, alphabet, extras, offset)
	if err != nil {
		return nil, err
	}
	tc.ext.Put(key, t)
	return t, nil
}
