package flate

import (
	"bufio"
	"bytes"
	"compress/flate"
	"io"
	"math/rand"
	"testing"
)

// encodeDeflate compresses data with the standard library's compress/flate
// at the given level, returning a raw (no zlib/gzip header) DEFLATE stream.
func encodeDeflate(t *testing.T, data []byte, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

// readAll drains a Reader via ReadAt in chunk-sized windows, mirroring how
// the teacher's original ad hoc harness pulled the whole member through.
func readAll(t *testing.T, r *Reader) []byte {
	t.Helper()
	out := make([]byte, r.Size())
	n, err := r.ReadAt(out, 0)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadAt: %v", err)
	}
	if int64(n) != r.Size() {
		t.Fatalf("short read: got %d want %d", n, r.Size())
	}
	return out
}

func TestRoundTripFixedAndDynamicBlocks(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		level int
	}{
		{"empty", nil, flate.DefaultCompression},
		{"short-literal-run", []byte("hello, world"), flate.DefaultCompression},
		{"repetitive-fixed", bytes.Repeat([]byte("ab"), 10), flate.BestSpeed},
		{"repetitive-dynamic", bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200), flate.BestCompression},
		{"binary", func() []byte {
			b := make([]byte, 4096)
			rand.New(rand.NewSource(1)).Read(b)
			return b
		}(), flate.DefaultCompression},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			z := encodeDeflate(t, tc.data, tc.level)
			r := NewReader(bytes.NewReader(z), int64(len(z)), int64(len(tc.data)))
			got := readAll(t, r)
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("mismatch: got %d bytes, want %d bytes", len(got), len(tc.data))
			}
		})
	}
}

func TestReadAtMidStream(t *testing.T) {
	data := bytes.Repeat([]byte("canonical Huffman decoding core "), 5000)
	z := encodeDeflate(t, data, flate.BestCompression)
	r := NewReader(bytes.NewReader(z), int64(len(z)), int64(len(data)))

	off := int64(len(data) / 2)
	buf := make([]byte, 128)
	n, err := r.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buf[:n], data[off:off+int64(n)]) {
		t.Fatalf("mid-stream read mismatch at offset %d", off)
	}
}

func TestReaderSeekAndRead(t *testing.T) {
	data := []byte("seekable stream contents, repeated. seekable stream contents, repeated.")
	z := encodeDeflate(t, data, flate.DefaultCompression)
	r := NewReader(bytes.NewReader(z), int64(len(z)), int64(len(data)))

	if _, err := r.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	br := bufio.NewReader(r)
	got, err := io.ReadAll(br)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data[10:]) {
		t.Fatalf("mismatch after seek: got %q want %q", got, data[10:])
	}
}
