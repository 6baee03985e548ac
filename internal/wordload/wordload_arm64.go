package wordload

import "golang.org/x/sys/cpu"

// Wide32 reports whether the CPU can service a 32-byte-aligned wide load.
// ARM64's NEON (ASIMD) registers are 16 bytes wide, so a 32-byte load is
// always serviced as two lanes; we only call it "wide" when ASIMD is
// present at all.
func Wide32() bool {
	return cpu.ARM64.HasASIMD
}

// Wide16 reports whether the CPU can service a 16-byte-aligned wide load.
func Wide16() bool {
	return cpu.ARM64.HasASIMD
}
