// Package wordload reports whether the current CPU supports a wide-load
// fast path for BitReader, following the same per-architecture split the
// teacher uses for its own platform-specific probes (internal/fileid's
// fileid_linux.go / fileid_darwin.go / fileid_otherunix.go).
//
// Go has no portable SIMD intrinsics, so "wide load" here means: the CPU can
// comfortably service a 16- or 32-byte read without a second cache-line
// fetch, which is the condition spec.md §4.2 uses to gate its own
// vector-register fast path ("a fast variant may issue a 16-byte or 32-byte
// wide load into a vector register when end - byte_ptr >= 16 (resp. 32)").
// The actual bytes loaded are always read with encoding/binary, so the
// result is bit-identical to the scalar path regardless of which branch
// ran — consistent with the design note that SIMD variants must be
// bit-identical to the scalar reference.
package wordload

import "golang.org/x/sys/cpu"

// Wide32 reports whether the CPU can service a 32-byte-aligned wide load
// (AVX2-class register width).
func Wide32() bool {
	return cpu.X86.HasAVX2
}

// Wide16 reports whether the CPU can service a 16-byte-aligned wide load
// (SSE2-class register width, present on every amd64 CPU Go supports).
func Wide16() bool {
	return cpu.X86.HasSSE2
}
