// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flate implements enough of the DEFLATE compressed data format
// (RFC 1951) to decompress a member embedded in an archive at an arbitrary
// byte offset, resuming from a checkpoint instead of re-decoding from the
// start of the stream.
//
// This is the teacher's own resumable decompressor (originally adapted
// from the Go standard library's compress/flate), transformed to delegate
// all canonical-Huffman bookkeeping to github.com/huffcodec/core: DEFLATE
// is one of the primitive's two motivating consumers (SPEC_FULL.md §0), and
// this package is the concrete component exercising its LSB decoder,
// builder, and extra-bits (TableExt) support end to end.
package flate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	huffman "github.com/huffcodec/core"
)

const (
	// The next three numbers come from the RFC section 3.2.7, with the
	// additional proviso in section 3.2.5 which implies that distance codes
	// 30 and 31 should never occur in compressed data.
	maxNumLit      = 286
	maxNumDist     = 30
	numCodes       = 19      // number of codes in Huffman meta-code
	maxMatchOffset = 1 << 15 // The largest match offset
	endBlockMarker = 256

	lengthExtraOffset = 257 // first literal/length symbol carrying extra bits
)

// lengthExtras and distExtras are RFC 1951 §3.2.5's length/distance base
// tables, expressed as huffman.ExtraSpec so the literal/length and distance
// alphabets decode through huffman.BuildLSBExt/DecodeLSBExtWithSym instead of the
// hand-rolled switch-on-symbol-range arithmetic the original decompressor
// used. Same information, the core's general "extra bits" mechanism instead
// of a DEFLATE-specific one.
var lengthExtras = [maxNumLit - lengthExtraOffset]huffman.ExtraSpec{
	{Base: 3, Bits: 0}, {Base: 4, Bits: 0}, {Base: 5, Bits: 0}, {Base: 6, Bits: 0},
	{Base: 7, Bits: 0}, {Base: 8, Bits: 0}, {Base: 9, Bits: 0}, {Base: 10, Bits: 0},
	{Base: 11, Bits: 1}, {Base: 13, Bits: 1}, {Base: 15, Bits: 1}, {Base: 17, Bits: 1},
	{Base: 19, Bits: 2}, {Base: 23, Bits: 2}, {Base: 27, Bits: 2}, {Base: 31, Bits: 2},
	{Base: 35, Bits: 3}, {Base: 43, Bits: 3}, {Base: 51, Bits: 3}, {Base: 59, Bits: 3},
	{Base: 67, Bits: 4}, {Base: 83, Bits: 4}, {Base: 99, Bits: 4}, {Base: 115, Bits: 4},
	{Base: 131, Bits: 5}, {Base: 163, Bits: 5}, {Base: 195, Bits: 5}, {Base: 227, Bits: 5},
	{Base: 258, Bits: 0},
}

var distExtras = [maxNumDist]huffman.ExtraSpec{
	{Base: 1, Bits: 0}, {Base: 2, Bits: 0}, {Base: 3, Bits: 0}, {Base: 4, Bits: 0},
	{Base: 5, Bits: 1}, {Base: 7, Bits: 1},
	{Base: 9, Bits: 2}, {Base: 13, Bits: 2},
	{Base: 17, Bits: 3}, {Base: 25, Bits: 3},
	{Base: 33, Bits: 4}, {Base: 49, Bits: 4},
	{Base: 65, Bits: 5}, {Base: 97, Bits: 5},
	{Base: 129, Bits: 6}, {Base: 193, Bits: 6},
	{Base: 257, Bits: 7}, {Base: 385, Bits: 7},
	{Base: 513, Bits: 8}, {Base: 769, Bits: 8},
	{Base: 1025, Bits: 9}, {Base: 1537, Bits: 9},
	{Base: 2049, Bits: 10}, {Base: 3073, Bits: 10},
	{Base: 4097, Bits: 11}, {Base: 6145, Bits: 11},
	{Base: 8193, Bits: 12}, {Base: 12289, Bits: 12},
	{Base: 16385, Bits: 13}, {Base: 24577, Bits: 13},
}

// Initialize the fixed tables only once upon first use.
var fixedOnce sync.Once
var fixedLitTable *huffman.TableExt
var fixedDistTable *huffman.TableExt

// dynamicTables memoizes the three tables readHuffman rebuilds per dynamic
// block (code-length meta-table, literal/length, distance): archives with
// repeated content (cmd/huffverify scans many similar files in a worker
// pool) tend to reuse the same dynamic table shapes across blocks, so a
// miss-then-hit here saves a real BuildLSB/BuildLSBExt pass, not just a
// lookup. Sized generously since a dynamic block's (lengths, alphabet) key
// is a few hundred bytes at most.
var dynamicTables = huffman.NewTableCache(256, nil)

func fixedTablesInit() {
	fixedOnce.Do(func() {
		var bits [maxNumLit + 2]uint8
		for i := 0; i < 144; i++ {
			bits[i] = 8
		}
		for i := 144; i < 256; i++ {
			bits[i] = 9
		}
		for i := 256; i < 280; i++ {
			bits[i] = 7
		}
		for i := 280; i < maxNumLit+2; i++ {
			bits[i] = 8
		}
		var err error
		fixedLitTable, err = huffman.BuildLSBExt(bits[:], nil, lengthExtras[:], lengthExtraOffset)
		if err != nil {
			panic(err)
		}

		var dbits [maxNumDist]uint8
		for i := range dbits {
			dbits[i] = 5
		}
		fixedDistTable, err = huffman.BuildLSBExt(dbits[:], nil, distExtras[:], 0)
		if err != nil {
			panic(err)
		}
	})
}

func readAtLeast(zip io.ReaderAt, zipsize int64, rp *resumePoint, minsize int) (resumePoint, error) {
	fixedTablesInit()

	if len(rp.big) != 0 && len(rp.big) != maxMatchOffset {
		panic("this resumepoint is populated, why not just use it?")
	}

	if (len(rp.big) == 0) != (rp.woffset == 0) || (len(rp.big) == 0) != (rp.roffset == 0 && rp.nb == 0) {
		panic("discrepancy about whether this is the first block or not")
	}

	f := decompressor{
		r:  bufio.NewReader(io.NewSectionReader(zip, rp.roffset, zipsize-rp.roffset)),
		rp: *rp,
	}
	if len(f.rp.big) == 0 {
		f.rp.big = make([]byte, maxMatchOffset) // zero out the dictionary
	}

	var err error
	for err == nil && len(f.rp.big) < maxMatchOffset+minsize {
		err = f.nextBlock()
	}

	rp.big = f.rp.big // copy this slice back where it came from
	nrp := f.rp
	nrp.big = make([]byte, maxMatchOffset)
	nrp.woffset += int64(len(f.rp.big) - maxMatchOffset)
	copy(nrp.big, f.rp.big[len(f.rp.big)-maxMatchOffset:])
	return nrp, err // which might be quite a serious error
}

// byteReader is the input interface a decompressor reads from; readAtLeast
// supplies a bufio.Reader over the compressed stream.
type byteReader interface {
	io.Reader
	io.ByteReader
}

type resumePoint struct {
	big     []byte
	roffset int64
	b       uint64
	nb      uint
	woffset int64
}

// Decompress state.
type decompressor struct {
	// Input source (must be seek-ed to "DEFLATE base"+rp.roffset)
	r byteReader
	// State required for mid-DEFLATE resumption
	rp resumePoint
}

// thinOut drops the decoded output big holds once a checkpoint stops being
// the current cache, keeping only what readAtLeast needs to resume from it:
// the leading maxMatchOffset bytes (the dictionary preceding woffset), or
// nothing at all for the first checkpoint, which starts from an empty
// dictionary.
func (rp *resumePoint) thinOut() {
	if rp.woffset == 0 {
		rp.big = nil
		return
	}
	if len(rp.big) > maxMatchOffset {
		head := make([]byte, maxMatchOffset)
		copy(head, rp.big[:maxMatchOffset])
		rp.big = head
	}
}

func (rp *resumePoint) String() string {
	return fmt.Sprintf("big=%#x bytes, roffset=%#x, b=%#x, nb=%d, woffset=%#x",
		len(rp.big), rp.roffset, rp.b, rp.nb, rp.woffset)
}

func (f *decompressor) nextBlock() (ret error) {
	defer func() {
		if r := recover(); r != nil {
			ret = errors.New("corrupt DEFLATE")
		}
	}()

	for f.rp.nb < 1+2 {
		f.moreBits()
	}
	final := f.rp.b&1 == 1
	f.rp.b >>= 1
	typ := f.rp.b & 3
	f.rp.b >>= 2
	f.rp.nb -= 1 + 2

	switch typ {
	case 0:
		f.dataBlock()
	case 1:
		// compressed, fixed Huffman tables
		f.huffmanBlock(fixedLitTable, fixedDistTable)
	case 2:
		// compressed, dynamic Huffman tables
		lit, dist := f.readHuffman()
		f.huffmanBlock(lit, dist)
	default:
		// 3 is reserved.
		panic("corrupt DEFLATE")
	}

	if final {
		return io.EOF
	}
	return nil
}

// RFC 1951 section 3.2.7.
// Compression with dynamic Huffman codes

var codeOrder = [...]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

func (f *decompressor) readHuffman() (lit, dist *huffman.TableExt) {
	var codeLens [maxNumLit + maxNumDist]uint8
	var codebits [numCodes]uint8

	// HLIT[5], HDIST[5], HCLEN[4].
	for f.rp.nb < 5+5+4 {
		f.moreBits()
	}
	nlit := int(f.rp.b&0x1F) + 257
	if nlit > maxNumLit {
		panic("corrupt DEFLATE")
	}
	f.rp.b >>= 5
	ndist := int(f.rp.b&0x1F) + 1
	if ndist > maxNumDist {
		panic("corrupt DEFLATE")
	}
	f.rp.b >>= 5
	nclen := int(f.rp.b&0xF) + 4
	// numCodes is 19, so nclen is always valid.
	f.rp.b >>= 4
	f.rp.nb -= 5 + 5 + 4

	// (HCLEN+4)*3 bits: code lengths in the magic codeOrder order.
	for i := 0; i < nclen; i++ {
		for f.rp.nb < 3 {
			f.moreBits()
		}
		codebits[codeOrder[i]] = uint8(f.rp.b & 0x7)
		f.rp.b >>= 3
		f.rp.nb -= 3
	}
	for i := nclen; i < len(codeOrder); i++ {
		codebits[codeOrder[i]] = 0
	}
	clenTable, err := dynamicTables.BuildLSB(codebits[:], nil)
	if err != nil {
		panic("corrupt DEFLATE")
	}

	// HLIT + 257 code lengths, HDIST + 1 code lengths,
	// using the code length Huffman code.
	for i, n := 0, nlit+ndist; i < n; {
		x := f.huffSymPlain(clenTable)
		if x < 16 {
			// Actual length.
			codeLens[i] = uint8(x)
			i++
			continue
		}
		// Repeat previous length or zero.
		var rep int
		var nb uint
		var b uint8
		switch x {
		default:
			panic("unexpected length code")
		case 16:
			rep = 3
			nb = 2
			if i == 0 {
				panic("corrupt DEFLATE")
			}
			b = codeLens[i-1]
		case 17:
			rep = 3
			nb = 3
			b = 0
		case 18:
			rep = 11
			nb = 7
			b = 0
		}
		for f.rp.nb < nb {
			f.moreBits()
		}
		rep += int(f.rp.b & (uint64(1)<<nb - 1))
		f.rp.b >>= nb
		f.rp.nb -= nb
		if i+rep > n {
			panic("corrupt DEFLATE")
		}
		for j := 0; j < rep; j++ {
			codeLens[i] = b
			i++
		}
	}

	lit, err = dynamicTables.BuildLSBExt(codeLens[0:nlit], nil, lengthExtras[:], lengthExtraOffset)
	if err != nil {
		panic("corrupt DEFLATE")
	}
	dist, err = dynamicTables.BuildLSBExt(codeLens[nlit:nlit+ndist], nil, distExtras[:], 0)
	if err != nil {
		panic("corrupt DEFLATE")
	}
	return lit, dist
}

// Decode a single Huffman block from f.
// lit and dist are the TableExt states for the lit/length values
// and the distance values, respectively.
func (f *decompressor) huffmanBlock(lit, dist *huffman.TableExt) {
readLiteral:
	// Read literal and/or (length, distance) according to RFC section 3.2.3.
	{
		sym, length32, used := f.huffExtSym(lit)
		_ = used
		v := int(sym)
		switch {
		case v < 256:
			f.rp.big = append(f.rp.big, byte(v))
			goto readLiteral
		case v == endBlockMarker:
			return // end of block
		case v < maxNumLit:
			length := int(length32)
			dsym, distVal, _ := f.huffExtSym(dist)
			_ = dsym
			distance := int(distVal)

			// No check on length; encoding can be prescient.
			if distance > maxMatchOffset || distance == 0 {
				panic("corrupt DEFLATE")
			}

			for range length {
				f.rp.big = append(f.rp.big, f.rp.big[len(f.rp.big)-distance])
			}
			goto readLiteral
		default:
			panic("corrupt DEFLATE")
		}
	}
}

// Copy a single uncompressed data block from input to output.
func (f *decompressor) dataBlock() {
	// Uncompressed.
	// Discard current half-byte. Whole bytes that fill already pulled into
	// b belong to this block, so they are put back in front of the input.
	f.rp.b >>= f.rp.nb & 7
	f.rp.nb &^= 7
	if f.rp.nb > 0 {
		pending := make([]byte, f.rp.nb/8)
		for i := range pending {
			pending[i] = byte(f.rp.b >> (8 * i))
		}
		f.rp.roffset -= int64(len(pending))
		f.r = bufio.NewReader(io.MultiReader(bytes.NewReader(pending), f.r))
	}
	f.rp.nb = 0
	f.rp.b = 0

	// Length then ones-complement of length.
	var buf [4]byte
	nr, err := io.ReadFull(f.r, buf[0:4])
	f.rp.roffset += int64(nr)
	if err != nil {
		panic("corrupt DEFLATE")
	}
	n := int(buf[0]) | int(buf[1])<<8
	nn := int(buf[2]) | int(buf[3])<<8
	if uint16(nn) != uint16(^n) {
		panic("corrupt DEFLATE")
	}

	for range n {
		b, err := f.r.ReadByte()
		if err != nil {
			panic("corrupt DEFLATE")
		}
		f.rp.roffset++
		f.rp.big = append(f.rp.big, b)
	}
}

func (f *decompressor) moreBits() {
	c, err := f.r.ReadByte()
	if err != nil {
		panic("corrupt DEFLATE")
	}
	f.rp.roffset++
	f.rp.b |= uint64(c) << f.rp.nb
	f.rp.nb += 8
}

// fillBits is wide enough to hold the longest possible single decode: a
// MaxCodeLength-bit codeword plus the longest DEFLATE extra-bits field (13,
// distance code 29), rounded up to a byte boundary with headroom.
const fillBits = 32

// fill tops up f.rp.b/f.rp.nb to at least fillBits valid bits, or as many as
// remain before EOF. huffman.DecodeLSB/DecodeLSBExt report failure (used ==
// 0) if that isn't enough to complete a codeword (plus its extra bits),
// which huffSymPlain/huffExtSym turn back into the same "corrupt DEFLATE"
// panic the teacher's own huffSym raised on a short read.
func (f *decompressor) fill() (b uint64, nb uint) {
	nb, b = f.rp.nb, f.rp.b
	for nb < fillBits {
		c, err := f.r.ReadByte()
		if err != nil {
			break
		}
		f.rp.roffset++
		b |= uint64(c) << nb
		nb += 8
	}
	return b, nb
}

// huffSymPlain decodes one symbol from a plain (non-extended) table, used
// for the code-length alphabet in readHuffman.
func (f *decompressor) huffSymPlain(t *huffman.Table) int {
	b, nb := f.fill()
	sym, used := huffman.DecodeLSB(t, b, clampBitLength(nb))
	if sym == huffman.SymbolInvalid {
		panic("corrupt DEFLATE")
	}
	f.rp.b = b >> used
	f.rp.nb = nb - uint(used)
	return int(sym)
}

// huffExtSym decodes one symbol and its extra-bits value from lit/dist
// TableExt tables used by huffmanBlock.
func (f *decompressor) huffExtSym(t *huffman.TableExt) (sym uint16, value uint32, used uint8) {
	b, nb := f.fill()
	sym, value, used = huffman.DecodeLSBExtWithSym(t, b, clampBitLength(nb))
	if sym == huffman.SymbolInvalid {
		panic("corrupt DEFLATE")
	}
	f.rp.b = b >> used
	f.rp.nb = nb - uint(used)
	return sym, value, used
}

func clampBitLength(nb uint) uint8 {
	if nb > 255 {
		return 255
	}
	return uint8(nb)
}
