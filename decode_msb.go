package huffman

// DecodeMSB decodes one symbol from bits using an MSB-first Table. Unlike
// DecodeLSB, bits must be top-aligned within the WordBits-wide register:
// the first undecoded stream bit is the most significant bit of bits, not
// the least significant. A caller holding a right-aligned word from Read
// gets there with RevWord (spec.md §4.1's LSB/MSB duality: decode_msb on
// RevWord(bits) agrees with decode_lsb on bits for tables built from the
// same lengths).
//
// Grounded on leijurv/lepton_jpeg_go's nextHuffCode: the fast path is the
// same FastLookup-style array hit, and the slow path compares the
// accumulated code against a per-length MaxCode, here named Sentinels for
// symmetry with the LSB decoder. Because the whole top-aligned window is
// already available, the per-length code is read directly as
// bits>>(WordBits-l) rather than accumulated bit by bit.
func DecodeMSB(t *Table, bits uint64, bitLength uint8) (sym uint16, used uint8) {
	idx := uint8(bits >> (WordBits - FastBits))
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

	for l := FastBits + 1; l <= MaxCodeLength; l++ {
		if bitLength < uint8(l) {
			return SymbolInvalid, 0
		}
		code := int32(bits >> (WordBits - uint(l)))
		if code < t.Sentinels[l] {
			return t.Syms[t.Offsets[l]+code], uint8(l)
		}
	}
	return SymbolInvalid, 0
}
