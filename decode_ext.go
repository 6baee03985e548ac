package huffman

// DecodeLSBExtWithSym decodes one symbol and its appended extra-bits value
// from an LSB-first TableExt, returning the raw symbol alongside the
// combined value (base + extra bits) and the total bits consumed by both
// the codeword and its extra bits (spec.md §4.4.3). Literals (symbols below
// ExtraOffset) carry no extra bits; value equals base (0) for them and the
// caller distinguishes on sym, matching DEFLATE's literal/length alphabet.
func DecodeLSBExtWithSym(t *TableExt, bits uint64, bitLength uint8) (sym uint16, value uint32, used uint8) {
	idx := uint8(bits & 0xFF)
	fe := t.Fast[idx]
	if fe.Len != 0 {
		if fe.TotalLen > bitLength {
			return SymbolInvalid, 0, 0
		}
		value = fe.Base + uint32((bits>>fe.Len)&uint64(fe.Mask))
		return fe.Sym, value, fe.TotalLen
	}

	if bitLength <= FastBits {
		return SymbolInvalid, 0, 0
	}

	code := int32(fe.Rev)
	rest := bits >> FastBits
	for l := FastBits + 1; l <= MaxCodeLength; l++ {
		if bitLength < uint8(l) {
			return SymbolInvalid, 0, 0
		}
		code = (code << 1) | int32(rest&1)
		rest >>= 1
		if code < t.Sentinels[l] {
			s := t.Syms[t.Offsets[l]+code]
			extra := t.extraFor(s)
			total := uint8(l) + extra.Bits
			if total > bitLength {
				return SymbolInvalid, 0, 0
			}
			mask := uint64(0)
			if extra.Bits > 0 {
				mask = (uint64(1) << extra.Bits) - 1
			}
			val := extra.Base + uint32((bits>>uint(l))&mask)
			return s, val, total
		}
	}
	return SymbolInvalid, 0, 0
}

// DecodeLSBExt is DecodeLSBExtWithSym without the symbol, for callers (like
// a DEFLATE length decoder past the literal/length branch) that only need
// the combined value.
func DecodeLSBExt(t *TableExt, bits uint64, bitLength uint8) (value uint32, used uint8) {
	_, value, used = DecodeLSBExtWithSym(t, bits, bitLength)
	return value, used
}
