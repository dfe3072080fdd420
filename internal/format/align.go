package format

import "math"

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(40) = 40
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8U32 returns n aligned up to the next 8-byte boundary. ok is false
// when the aligned value does not fit in a 32-bit size field.
func Align8U32(n uint32) (uint32, bool) {
	if n > math.MaxUint32-AlignmentMask {
		return 0, false
	}
	return (n + AlignmentMask) &^ AlignmentMask, true
}

// IsAligned reports whether n sits on an 8-byte boundary.
func IsAligned(n uint32) bool {
	return n&AlignmentMask == 0
}
