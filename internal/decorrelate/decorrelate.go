// Package decorrelate implements QB3's per-band predictor: an optional
// inter-band subtraction (core-band differencing) followed by a running
// delta in scan order, and its exact inverse.
package decorrelate

import "github.com/qb3go/qb3/internal/magsign"

// Forward consumes 16 samples in scan order (already core-band-adjusted by
// the caller, if the band being encoded has one) and produces the mag-sign
// delta group plus the updated running predictor. All arithmetic wraps
// modulo 2^w, via two's-complement wraparound subtraction.
func Forward(values [16]uint64, prev uint64, w int) (group [16]uint64, newPrev uint64) {
	mask := magsign.Mask(w)
	for i, s := range values {
		delta := (s - prev) & mask
		group[i] = magsign.Mags(delta, w)
		prev = s
	}
	return group, prev
}

// Inverse is Forward's exact inverse: given a decoded mag-sign delta group
// and the running predictor, reconstructs the 16 (core-adjusted) samples
// in scan order and the updated predictor.
func Inverse(group [16]uint64, prev uint64, w int) (values [16]uint64, newPrev uint64) {
	mask := magsign.Mask(w)
	for i, g := range group {
		delta := magsign.Smag(g, w)
		s := (prev + delta) & mask
		values[i] = s
		prev = s
	}
	return values, prev
}
