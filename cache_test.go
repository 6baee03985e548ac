package huffman

import "testing"

func TestTableCacheBuildLSBHitsReturnSameTable(t *testing.T) {
	tc := NewTableCache(8, nil)
	lengths := deflateFixedLitLengths()

	first, err := tc.BuildLSB(lengths, nil)
	if err != nil {
		t.Fatalf("BuildLSB: %v", err)
	}
	second, err := tc.BuildLSB(lengths, nil)
	if err != nil {
		t.Fatalf("BuildLSB: %v", err)
	}
	if first != second {
		t.Fatal("expected a cache hit to return the same *Table built on the miss")
	}

	// A differently-shaped table must miss and build independently.
	other := make([]uint8, len(lengths))
	copy(other, lengths)
	other[0] = 1
	third, err := tc.BuildLSB(other, nil)
	if err != nil {
		t.Fatalf("BuildLSB: %v", err)
	}
	if third == first {
		t.Fatal("expected a differently-shaped length table to miss the cache")
	}
}

func TestTableCacheBuildMSBHitsReturnSameTable(t *testing.T) {
	tc := NewTableCache(8, nil)
	lengths := []uint8{2, 2, 2, 3, 3}

	first, err := tc.BuildMSB(lengths, nil)
	if err != nil {
		t.Fatalf("BuildMSB: %v", err)
	}
	second, err := tc.BuildMSB(lengths, nil)
	if err != nil {
		t.Fatalf("BuildMSB: %v", err)
	}
	if first != second {
		t.Fatal("expected a cache hit to return the same *Table built on the miss")
	}
}

func TestTableCacheBuildLSBExtHitsReturnSameTable(t *testing.T) {
	tc := NewTableCache(8, nil)
	lengths := []uint8{3, 3, 3, 3, 3, 3, 4, 4}
	extras := []ExtraSpec{
		{Base: 3, Bits: 0}, {Base: 4, Bits: 0}, {Base: 5, Bits: 0}, {Base: 6, Bits: 0},
		{Base: 7, Bits: 0}, {Base: 8, Bits: 0}, {Base: 9, Bits: 1}, {Base: 11, Bits: 1},
	}

	first, err := tc.BuildLSBExt(lengths, nil, extras, 257)
	if err != nil {
		t.Fatalf("BuildLSBExt: %v", err)
	}
	second, err := tc.BuildLSBExt(lengths, nil, extras, 257)
	if err != nil {
		t.Fatalf("BuildLSBExt: %v", err)
	}
	if first != second {
		t.Fatal("expected a cache hit to return the same *TableExt built on the miss")
	}

	// Same lengths, different offset must be a distinct cache entry.
	third, err := tc.BuildLSBExt(lengths, nil, extras, 0)
	if err != nil {
		t.Fatalf("BuildLSBExt: %v", err)
	}
	if third == first {
		t.Fatal("expected a different extra-bits offset to miss the cache")
	}
}

func TestTableCacheEvictsUnderPressure(t *testing.T) {
	tc := NewTableCache(1, nil)
	base := []uint8{1, 1}

	var tables []*Table
	for i := 0; i < 32; i++ {
		lengths := append([]uint8{}, base...)
		lengths[0] = uint8(i%4) + 1
		lengths[1] = lengths[0]
		tbl, err := tc.BuildLSB(lengths, []uint16{uint16(i), uint16(i + 1)})
		if err != nil {
			t.Fatalf("BuildLSB: %v", err)
		}
		tables = append(tables, tbl)
	}

	// Rebuilding the very first key after flooding a size-1 cache with 31
	// other distinct keys must have evicted it, producing a fresh *Table
	// rather than the one cached on the first call.
	lengths := append([]uint8{}, base...)
	lengths[0] = 1
	lengths[1] = 1
	rebuilt, err := tc.BuildLSB(lengths, []uint16{0, 1})
	if err != nil {
		t.Fatalf("BuildLSB: %v", err)
	}
	if rebuilt == tables[0] {
		t.Fatal("expected the size-1 cache to have evicted the first entry by now")
	}
}
