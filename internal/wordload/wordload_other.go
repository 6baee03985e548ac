//go:build !amd64 && !arm64

package wordload

// Wide32 and Wide16 are conservatively false on architectures this package
// has no feature probe for; BitReader falls back to its scalar load, which
// is the normative behaviour anyway.
func Wide32() bool { return false }
func Wide16() bool { return false }
