// Package conv holds the bounds-checked integer narrowings the engine
// performs when mapping arena indices to its fixed-width ID types. Overflow
// here means the pattern blew past an internal limit, which is a
// programming error, so the helpers panic rather than return an error.
package conv

import "math"

// IntToUint32 narrows n to uint32, panicking if n is negative or too large.
// The comparison goes through uint so it stays correct on 32-bit platforms,
// where int cannot represent math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
