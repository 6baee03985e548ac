package huffman

import "math/bits"

// rev8Table is a precomputed full 8-bit reversal, built once at init instead
// of calling bits.Reverse8 in the per-miss hot path (build.go fills one
// entry per fast-table miss at build time, not per decode, but the table
// keeps rev8Full a single load rather than a handful of shifts, matching the
// spirit of the "byte-wise shuffle via a 256-entry lookup" fast path the
// spec calls out as SIMD-equivalent by construction).
var rev8Table [256]uint8

func init() {
	for i := range rev8Table {
		rev8Table[i] = bits.Reverse8(uint8(i))
	}
}

// Rev8Full reverses all 8 bits of b.
func Rev8Full(b uint8) uint8 {
	return rev8Table[b]
}

// Rev8 reverses the low `length` bits of b and returns them right-aligned.
// length must be in [0, 8]; length == 0 returns 0.
func Rev8(b uint8, length uint8) uint8 {
	if length == 0 {
		return 0
	}
	return Rev8Full(b) >> (8 - length)
}

// RevWord reverses the bit order of a full WordBits-wide word. It is used to
// convert between LSB-first and MSB-first bitstreams (spec.md property 4:
// LSB/MSB duality), generalising the single-byte math/bits.Reverse16 call
// the teacher's flate.huffmanDecoder.init uses when filling its chunk table
// from an MSB-natural code.
func RevWord(x uint64) uint64 {
	return bits.Reverse64(x)
}
