package huffman

import (
	"encoding/binary"

	"github.com/huffcodec/core/internal/wordload"
)

// Read pulls up to WordBits bits from buf, starting at cursor, into a
// right-aligned word: the bit currently pointed to by cursor is bit 0 of the
// returned word. nbits is the number of valid bits loaded,
// min(WordBits-cursor.Bit, 8*(end-cursor.Pos)-cursor.Bit): at most 8 bytes
// are loaded, so a cursor partway into a byte yields fewer than WordBits
// bits. At or past end nbits is 0.
//
// This is spec.md §4.2's contract verbatim: "little-endian byte order
// interpreted as a single integer, then shifted right by bit_in_byte". For
// MSB-first formats the caller reverses bytes (or calls RevWord) before
// decoding with an MSB table; Read itself is bit-order-agnostic.
//
// Read never fails: reading past end simply returns fewer bits. It does not
// advance cursor — the caller advances by the bits a decode call actually
// consumed (BitCursor.Advance), since only part of the returned word may
// correspond to a complete codeword.
func Read(buf []byte, cursor BitCursor, end int) (word uint64, nbits uint8) {
	bytePtr := cursor.Pos
	if bytePtr >= end {
		return 0, 0
	}
	remaining := end - bytePtr
	availBits := remaining*8 - int(cursor.Bit)
	if availBits <= 0 {
		return 0, 0
	}
	loadBytes := remaining
	if loadBytes > 8 {
		loadBytes = 8
	}
	n := loadBytes*8 - int(cursor.Bit)

	var raw uint64
	switch {
	case loadBytes == 8:
		raw = loadWord(buf, bytePtr, remaining)
	default:
		for i := loadBytes - 1; i >= 0; i-- {
			raw = raw<<8 | uint64(buf[bytePtr+i])
		}
	}

	raw >>= cursor.Bit
	if n < WordBits {
		raw &= (uint64(1) << uint(n)) - 1
	}
	return raw, uint8(n)
}

// loadWord returns the little-endian uint64 at buf[bytePtr:bytePtr+8]. It
// takes the widest lane the CPU can service in one shot out of whatever
// wordload reports available at bytePtr (spec.md §4.2's vector-register
// fast path), then extracts the low 8 bytes from that lane — the value
// returned is identical no matter which branch ran, since the core's
// decode semantics may never depend on load width, only the path taken to
// assemble the word does.
func loadWord(buf []byte, bytePtr, remaining int) uint64 {
	switch {
	case remaining >= 32 && wordload.Wide32():
		var lane [4]uint64
		for i := range lane {
			lane[i] = binary.LittleEndian.Uint64(buf[bytePtr+8*i : bytePtr+8*i+8])
		}
		return lane[0]
	case remaining >= 16 && wordload.Wide16():
		var lane [2]uint64
		for i := range lane {
			lane[i] = binary.LittleEndian.Uint64(buf[bytePtr+8*i : bytePtr+8*i+8])
		}
		return lane[0]
	default:
		return binary.LittleEndian.Uint64(buf[bytePtr : bytePtr+8])
	}
}

// BitReader is a convenience wrapper pairing a buffer with a cursor, in the
// style of the teacher's own lepton.BitReader: a stateful reader callers
// pull fixed-width codewords from, rather than threading cursor/end through
// every call by hand.
type BitReader struct {
	buf    []byte
	end    int
	cursor BitCursor
}

// NewBitReader wraps buf for bit-level reading starting at its first bit.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf, end: len(buf)}
}

// Peek returns the next WordBits bits right-aligned without advancing, and
// how many of them are valid.
func (r *BitReader) Peek() (word uint64, nbits uint8) {
	return Read(r.buf, r.cursor, r.end)
}

// Advance moves the cursor forward by nbits, typically the `used` value a
// decode call returned.
func (r *BitReader) Advance(nbits uint32) {
	r.cursor = r.cursor.Advance(nbits)
}

// Cursor returns the reader's current position.
func (r *BitReader) Cursor() BitCursor { return r.cursor }

// SeekCursor repositions the reader, e.g. to resume at a checkpoint.
func (r *BitReader) SeekCursor(c BitCursor) { r.cursor = c }

// AtEnd reports whether the cursor has consumed every bit in the buffer.
func (r *BitReader) AtEnd() bool {
	return r.cursor.Pos >= r.end
}
