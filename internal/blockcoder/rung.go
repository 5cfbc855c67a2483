// Package blockcoder implements the QB3 block bit-layout: rung selection,
// the step-down normalization, the three-length codeword family, the
// rung-switch prefix, and (in cf.go) the common-factor alternative block
// encoding.
package blockcoder

import (
	"math/bits"

	"github.com/qb3go/qb3/internal/scan"
)

// Rung returns topbit(max|1): the index of the top set bit of the block's
// maximum mag-sign value, forced to at least 0 even when max is 0.
func Rung(max uint64) int {
	return topBit(max | 1)
}

func topBit(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.Len64(v) - 1
}

// maxOf returns the maximum value in a 16-element group.
func maxOf(group [scan.B2]uint64) uint64 {
	m := group[0]
	for _, v := range group[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// stepNoMatch is returned by stepIndex when the rung-bit sequence isn't a
// clean prefix of ones followed by zeros.
const stepNoMatch = scan.B2 + 1

// stepIndex detects whether the rung-bit sequence of group (bit `rung` of
// each of the 16 elements, scan order) forms the pattern 1^k 0^(16-k) for
// some k in [0,16]. It returns k on a match, or stepNoMatch otherwise.
//
// Building the 16-bit word B = b_0 || b_1 || ... || b_15 (b_0 the MSB) turns
// the pattern test into checking whether ~B, read as an unsigned 16-bit
// value, is a contiguous run of low-order one bits.
func stepIndex(group [scan.B2]uint64, rung int) int {
	var b uint16
	for i := 0; i < scan.B2; i++ {
		bit := (group[i] >> uint(rung)) & 1
		b = (b << 1) | uint16(bit)
	}
	notB := ^b
	s := bits.OnesCount16(notB)
	if s == 0 {
		return scan.B2 // k == 16: the whole sequence is ones
	}
	if topBit(uint64(notB)) != s-1 {
		return stepNoMatch
	}
	return scan.B2 - s
}

// applyStepDown flips the k-th rung bit (the last set one, 0-indexed k-1)
// if the group's rung-bit sequence is a valid step pattern. It mutates
// group in place and is called by the encoder before the group is coded.
func applyStepDown(group *[scan.B2]uint64, rung int) {
	q := stepIndex(*group, rung)
	if q < 1 || q > scan.B2 {
		return
	}
	group[q-1] ^= uint64(1) << uint(rung)
}

// undoStepDown reverses applyStepDown on a decoded group, called only when
// the caller has already observed that the last element's rung bit is 0,
// the necessary (but not sufficient) precondition for a step having been
// applied.
func undoStepDown(group *[scan.B2]uint64, rung int) {
	q := stepIndex(*group, rung)
	if q < 0 || q > scan.B2-1 {
		return
	}
	group[q] ^= uint64(1) << uint(rung)
}
