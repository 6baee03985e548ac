package huffman

// FastEntry is one slot of a Table's direct-indexed fast lookup array. If
// Len > 0, the entry fully decodes any bit pattern whose low FastBits bits
// (LSB table) or high FastBits bits (MSB table) equal the entry's index:
// Sym is the decoded symbol, Len its codeword length in bits. If Len == 0
// the slow path is required, and Rev holds Rev8Full of the 8-bit index,
// precomputed at build time to save one operation per miss (design note:
// "rev precomputed into miss entries").
type FastEntry struct {
	Len uint8
	Sym uint16
	Rev uint8
}

// Table is a decode-ready canonical Huffman table (spec.md §3.2).
type Table struct {
	Order Order

	Fast [FastSize]FastEntry

	// Sentinels[l] is the exclusive upper bound on the normalised code
	// value at length l. A decoded code c belongs to length l iff
	// c < Sentinels[l].
	Sentinels [MaxCodeLength + 1]int32

	// Offsets[l] satisfies Syms[Offsets[l]+c] == the decoded symbol when
	// the code accumulated to length l equals c. May be negative; the sum
	// with c is guaranteed to land in [0, len(Syms)).
	Offsets [MaxCodeLength + 1]int32

	// Syms holds symbols packed in canonical order: grouped by ascending
	// length, and within a length by ascending input index (or by
	// alphabet[i] when an alphabet remap was supplied).
	Syms []uint16
}

// ExtraSpec describes the "extra bits" appended after a codeword for one
// symbol (spec.md §3.3): the decoded value is Base + the integer formed by
// the next Bits bits of the stream.
type ExtraSpec struct {
	Base uint32
	Bits uint8
}

// ExtFastEntry is a TableExt fast-table slot: a FastEntry plus the extra-bits
// descriptor needed to decode a symbol and its appended value in one call.
type ExtFastEntry struct {
	FastEntry
	Base     uint32
	Mask     uint32
	TotalLen uint8
}

// TableExt is a Table augmented with per-symbol extra-bits semantics (the
// DEFLATE length/distance alphabet is the motivating case: symbol 265
// means "length base 11, 1 extra bit").
type TableExt struct {
	Order Order

	Fast [FastSize]ExtFastEntry

	Sentinels [MaxCodeLength + 1]int32
	Offsets   [MaxCodeLength + 1]int32
	Syms      []uint16

	// Extras holds one ExtraSpec per symbol in [ExtraOffset, ExtraOffset+len(Extras)).
	// Symbols below ExtraOffset (DEFLATE literals, e.g.) carry no extra bits.
	Extras      []ExtraSpec
	ExtraOffset uint16
}

// extraFor returns the ExtraSpec for sym, or a zero-bits spec if sym carries
// no extra bits (below ExtraOffset or past the end of Extras).
func (t *TableExt) extraFor(sym uint16) ExtraSpec {
	if sym < t.ExtraOffset {
		return ExtraSpec{}
	}
	idx := int(sym) - int(t.ExtraOffset)
	if idx < 0 || idx >= len(t.Extras) {
		return ExtraSpec{}
	}
	return t.Extras[idx]
}
