package huffman

// DecodeLSB decodes one symbol from bits (right-aligned, LSB-first) using
// Table t, where bitLength is the number of valid bits in bits (as returned
// by Read's nbits). It returns (SymbolInvalid, 0) if bits was exhausted
// before a codeword completed, or if the table is malformed and every
// length falls through (spec.md §4.4.1).
//
// Grounded on the teacher's flate.decompressor.huffSym fast/slow split,
// restructured to the spec's explicit Sentinels/Offsets/Syms layout instead
// of huffSym's chunk+link tables.
func DecodeLSB(t *Table, bits uint64, bitLength uint8) (sym uint16, used uint8) {
	idx := uint8(bits & 0xFF)
	fe := t.Fast[idx]
	if fe.Len != 0 {
		if fe.Len > bitLength {
			return SymbolInvalid, 0
		}
		return fe.Sym, fe.Len
	}

	if bitLength <= FastBits {
		return SymbolInvalid, 0
	}

	code := int32(fe.Rev)
	rest := bits >> FastBits
	for l := FastBits + 1; l <= MaxCodeLength; l++ {
		if bitLength < uint8(l) {
			return SymbolInvalid, 0
		}
		code = (code << 1) | int32(rest&1)
		rest >>= 1
		if code < t.Sentinels[l] {
			return t.Syms[t.Offsets[l]+code], uint8(l)
		}
	}
	return SymbolInvalid, 0
}
