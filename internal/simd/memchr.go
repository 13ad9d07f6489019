// Package simd provides a portable single-byte search used by
// internal/prefilter to accelerate the VM's unanchored restart step.
// Memchr is grounded on the teacher's memchrGeneric (simd/memchr_generic_impl.go):
// the same SWAR (SIMD Within A Register) zero-byte-detection trick,
// kept in pure Go rather than reproduced with the teacher's amd64
// assembly backend, since an asm file's correctness cannot be checked
// without running the toolchain.
package simd

import (
	"encoding/binary"
	"math/bits"
)

// Memchr returns the index of the first occurrence of needle in
// haystack, or -1 if it is not present.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	if n == 0 {
		return -1
	}

	if n < 8 {
		return scalarIndex(haystack, needle)
	}

	needleMask := uint64(needle) * 0x0101010101010101
	const lo8 = 0x0101010101010101
	const hi8 = 0x8080808080808080

	idx := 0
	for idx+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		xor := chunk ^ needleMask
		hasZero := (xor - lo8) &^ xor & hi8
		if hasZero != 0 {
			return idx + bits.TrailingZeros64(hasZero)/8
		}
		idx += 8
	}

	if rest := scalarIndex(haystack[idx:], needle); rest >= 0 {
		return idx + rest
	}
	return -1
}

func scalarIndex(haystack []byte, needle byte) int {
	for i, b := range haystack {
		if b == needle {
			return i
		}
	}
	return -1
}
