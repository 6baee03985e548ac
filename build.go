package huffman

// canonical holds the length-histogram and per-length bookkeeping shared by
// both the LSB and MSB builders (design note: "Two build paths share
// histogram/sentinel/offset math via an internal helper; the fast-table
// materialisation and decode are specialised"). It mirrors the histogram +
// nextcode + symbol-placement loop of the teacher's
// flate.huffmanDecoder.init, generalised to also produce the MSB-style
// MinCode/MaxCode/ValPtr bookkeeping lepton.HuffmanTable.BuildDerivedTable
// keeps as separate arrays.
type canonical struct {
	count      [MaxCodeLength + 1]int32 // count[l]: number of symbols of length l
	firstCode  [MaxCodeLength + 1]int32 // code[l] from step 2: first canonical code of length l
	firstIndex [MaxCodeLength + 1]int32 // sym_idx[l] from step 3: first Syms[] slot for length l
	total      int32                    // total non-zero-length symbols
}

func computeCanonical(lengths []uint8) (canonical, *BuildError) {
	var c canonical
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		if l > MaxCodeLength {
			return c, newBuildError(InvalidLength, i, "length %d exceeds MaxCodeLength %d", l, MaxCodeLength)
		}
		c.count[l]++
		c.total++
	}
	if len(lengths) > MaxSymbols {
		return c, newBuildError(TooManySymbols, -1, "N=%d exceeds MaxSymbols %d", len(lengths), MaxSymbols)
	}

	var code int32
	for l := 1; l <= MaxCodeLength; l++ {
		c.firstCode[l] = code
		c.firstIndex[l] = c.firstIndex[l-1] + c.count[l-1]
		code = (code + c.count[l]) << 1
	}
	return c, nil
}

// kraftNumerator returns the Kraft sum Σ 2^(-len_i) of the histogram scaled
// by 2^MaxCodeLength; the table is over-subscribed when it exceeds
// 2^MaxCodeLength and incomplete when it falls short.
func (c canonical) kraftNumerator() int64 {
	// Σ count[l] * 2^(MaxCodeLength-l), compared against 2^MaxCodeLength,
	// avoids floating point entirely.
	var sum int64
	for l := 1; l <= MaxCodeLength; l++ {
		sum += int64(c.count[l]) << uint(MaxCodeLength-l)
	}
	return sum
}

func symbolFor(i int, alphabet []uint16) uint16 {
	if alphabet != nil {
		return alphabet[i]
	}
	return uint16(i)
}

// BuildLSB builds a Table decoding LSB-first (DEFLATE, HPACK) canonical
// Huffman codes from lengths. alphabet may be nil for the identity mapping.
func BuildLSB(lengths []uint8, alphabet []uint16) (*Table, error) {
	c, err := computeCanonical(lengths)
	if err != nil {
		return nil, err
	}

	t := &Table{Order: LSB}
	t.Syms = make([]uint16, c.total)

	for l := 1; l <= MaxCodeLength; l++ {
		t.Sentinels[l] = c.firstCode[l] + c.count[l]
		t.Offsets[l] = c.firstIndex[l] - c.firstCode[l]
	}

	runningIndex := c.firstIndex
	runningCode := c.firstCode
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		sym := symbolFor(i, alphabet)
		t.Syms[runningIndex[l]] = sym
		runningIndex[l]++

		if l <= FastBits {
			code := runningCode[l]
			idxBase := uint32(Rev8(uint8(code&((1<<l)-1)), uint8(l)))
			for pad := uint32(0); pad < uint32(FastSize)>>uint(l); pad++ {
				idx := idxBase | (pad << uint(l))
				t.Fast[idx] = FastEntry{Len: uint8(l), Sym: sym}
			}
		}
		runningCode[l]++
	}

	for i := range t.Fast {
		if t.Fast[i].Len == 0 {
			t.Fast[i].Rev = Rev8Full(uint8(i))
		}
	}

	return t, nil
}

// BuildMSB builds a Table decoding MSB-first (JPEG) canonical Huffman codes
// from lengths. alphabet may be nil for the identity mapping. Grounded on
// leijurv/lepton_jpeg_go's HuffmanTable.BuildDerivedTable, which performs
// exactly this pair of passes (fast lookup to 8 bits, then MinCode/MaxCode/
// ValPtr for the slow path) for JPEG's MSB-first bit order.
func BuildMSB(lengths []uint8, alphabet []uint16) (*Table, error) {
	c, err := computeCanonical(lengths)
	if err != nil {
		return nil, err
	}

	t := &Table{Order: MSB}
	t.Syms = make([]uint16, c.total)

	// Sentinels are stored as plain per-length magnitudes, not left-aligned:
	// the MSB decoder holds the whole WordBits-wide top-aligned window and
	// derives each length's candidate code with bits>>(WordBits-l) (design
	// note), so no pre-shifted sentinel is needed. This mirrors
	// lepton.HuffmanTable's MinCode/MaxCode, which are likewise plain
	// magnitudes compared against a code accumulated one bit at a time.
	for l := 1; l <= MaxCodeLength; l++ {
		t.Sentinels[l] = c.firstCode[l] + c.count[l]
		t.Offsets[l] = c.firstIndex[l] - c.firstCode[l]
	}

	runningIndex := c.firstIndex
	runningCode := c.firstCode
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		sym := symbolFor(i, alphabet)
		t.Syms[runningIndex[l]] = sym
		runningIndex[l]++

		if l <= FastBits {
			code := runningCode[l]
			idxBase := uint32(code) << uint(FastBits-l)
			count := uint32(1) << uint(FastBits-l)
			for pad := uint32(0); pad < count; pad++ {
				t.Fast[idxBase+pad] = FastEntry{Len: uint8(l), Sym: sym}
			}
		}
		runningCode[l]++
	}

	for i := range t.Fast {
		if t.Fast[i].Len == 0 {
			t.Fast[i].Rev = Rev8Full(uint8(i))
		}
	}

	return t, nil
}

// BuildLSBExt builds a TableExt: an LSB table whose symbols at or above
// offset carry the appended "extra bits" described by extras (spec.md §3.3,
// the DEFLATE length/distance alphabets being the motivating case).
// extras[sym-offset] describes the symbol at absolute symbol id sym.
func BuildLSBExt(lengths []uint8, alphabet []uint16, extras []ExtraSpec, offset uint16) (*TableExt, error) {
	c, err := computeCanonical(lengths)
	if err != nil {
		return nil, err
	}

	t := &TableExt{Order: LSB, Extras: extras, ExtraOffset: offset}
	t.Syms = make([]uint16, c.total)

	for l := 1; l <= MaxCodeLength; l++ {
		t.Sentinels[l] = c.firstCode[l] + c.count[l]
		t.Offsets[l] = c.firstIndex[l] - c.firstCode[l]
	}

	runningIndex := c.firstIndex
	runningCode := c.firstCode
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		sym := symbolFor(i, alphabet)
		t.Syms[runningIndex[l]] = sym
		runningIndex[l]++

		if l <= FastBits {
			extra := t.extraFor(sym)
			fe := ExtFastEntry{
				FastEntry: FastEntry{Len: uint8(l), Sym: sym},
				Base:      extra.Base,
				TotalLen:  uint8(l) + extra.Bits,
			}
			if extra.Bits > 0 {
				fe.Mask = (uint32(1) << extra.Bits) - 1
			}

			code := runningCode[l]
			idxBase := uint32(Rev8(uint8(code&((1<<l)-1)), uint8(l)))
			for pad := uint32(0); pad < uint32(FastSize)>>uint(l); pad++ {
				idx := idxBase | (pad << uint(l))
				t.Fast[idx] = fe
			}
		}
		runningCode[l]++
	}

	for i := range t.Fast {
		if t.Fast[i].Len == 0 {
			t.Fast[i].Rev = Rev8Full(uint8(i))
		}
	}

	return t, nil
}

// BuildLSBStrict behaves like BuildLSB but rejects tables that violate the
// Kraft inequality instead of silently accepting them: OverSubscribed when
// the sum exceeds 1, Incomplete when it falls short. Most callers want the
// permissive BuildLSB (some decoders, e.g. DEFLATE's dynamic HDIST table,
// legitimately rely on an incomplete table to signal end-of-block
// conditions through sentinel ranges — spec.md §3.1).
func BuildLSBStrict(lengths []uint8, alphabet []uint16) (*Table, error) {
	c, err := computeCanonical(lengths)
	if err != nil {
		return nil, err
	}
	full := int64(1) << uint(MaxCodeLength)
	if k := c.kraftNumerator(); k > full {
		return nil, newBuildError(OverSubscribed, -1, "Kraft sum numerator %d exceeds %d", k, full)
	} else if k < full && c.total > 0 {
		return nil, newBuildError(Incomplete, -1, "Kraft sum numerator %d short of %d", k, full)
	}
	return BuildLSB(lengths, alphabet)
}
