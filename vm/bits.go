package vm

import "math/bits"

// mul64 computes the full 128-bit unsigned product of a and b, split
// as (high, low) 64-bit halves. Thin wrapper over math/bits.Mul64 so
// the sign-correction logic in Arch64's multiply strategies reads
// linearly.
func mul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}
