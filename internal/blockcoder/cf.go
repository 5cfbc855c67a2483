package blockcoder

import (
	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/magsign"
	"github.com/qb3go/qb3/internal/scan"
)

// GCF returns the greatest common factor of the magnitudes of a group's
// mag-sign values, ignoring zeros, or 1 if the nonzero values share no
// factor or the group is all zero. A group with a single nonzero value
// returns that value's magnitude.
//
// Euclid's algorithm over the absolute values, folded pairwise across the
// group, with an early exit the moment a running factor of 1 is seen.
func GCF(group [scan.B2]uint64) uint64 {
	var g uint64
	for _, v := range group {
		m := magsign.Abs(v)
		if m == 0 {
			continue
		}
		g = gcd(g, m)
		if g == 1 {
			return 1
		}
	}
	if g == 0 {
		return 1
	}
	return g
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// divideByFactor replaces every value in group with its mag-sign encoded
// quotient by cf (the sign is preserved, only the magnitude is divided).
func divideByFactor(group [scan.B2]uint64, cf uint64) [scan.B2]uint64 {
	var out [scan.B2]uint64
	for i, v := range group {
		if v == 0 {
			continue
		}
		out[i] = (magsign.Abs(v)/cf)<<1 - (v & 1)
	}
	return out
}

// multiplyByFactor is divideByFactor's inverse, given the already-decoded
// reduced group and the reconstructed factor cf.
func multiplyByFactor(group [scan.B2]uint64, cf uint64) [scan.B2]uint64 {
	var out [scan.B2]uint64
	for i, v := range group {
		if v == 0 {
			continue
		}
		out[i] = (magsign.Abs(v)*cf)<<1 - (v & 1)
	}
	return out
}

// EncodeCF writes one group using the Common-Factor alternative coding: the
// 16 values share a factor cf >= 2, so the block carries the reduced values
// (each divided by cf) plus cf itself, which is usually cheaper than coding
// the full-magnitude group directly. The caller (see EncodeBlock) has
// already written the CF switch marker.
//
// Layout:
//
//	U bits:  trung
//	1 bit:   0 = single-rung, 1 = dual-rung
//	single-rung: cf-2 coded at trung, then the 16 reduced values at trung
//	dual-rung:   cfrung (U raw bits), cf-2 coded at cfrung,
//	             then the 16 reduced values at trung
//
// trung is always sent as U raw bits (not a delta) immediately before the
// discriminator bit rather than folded into the rung-switch field.
func EncodeCF(w *bitio.Writer, group [scan.B2]uint64, cf uint64, width int) {
	reduced := divideByFactor(group, cf)
	trung := Rung(maxOf(reduced))
	cfv := cf - 2
	cfrung := Rung(cfv)
	w.WriteBits(uint64(trung), UBits(width))
	if trung == cfrung {
		w.WriteBits(0, 1)
		encodeScalar(w, cfv, trung)
	} else {
		w.WriteBits(1, 1)
		w.WriteBits(uint64(cfrung), UBits(width))
		encodeScalar(w, cfv, cfrung)
	}
	encodeBody(w, reduced, trung, maxOf(reduced))
}

// DecodeCF is EncodeCF's inverse; called once the caller has read the CF
// switch marker. It returns the reconstructed full-magnitude group and its
// rung, recomputed from the reconstructed group rather than from trung,
// which describes the reduced values only, so it becomes the band's new
// runbits state exactly as it would for a regular (non-CF) block.
func DecodeCF(rdr *bitio.Reader, width int) (group [scan.B2]uint64, newRung int) {
	trung := int(rdr.Pull(UBits(width)))
	var cfrung int
	var cfv uint64
	if rdr.Get() == 0 {
		cfrung = trung
		cfv = decodeScalar(rdr, cfrung)
	} else {
		cfrung = int(rdr.Pull(UBits(width)))
		cfv = decodeScalar(rdr, cfrung)
	}
	cf := cfv + 2
	reduced := decodeBody(rdr, trung)
	full := multiplyByFactor(reduced, cf)
	return full, Rung(maxOf(full))
}

// encodeScalar/decodeScalar code a single value at a known rung, using the
// rung == 0 flag-bit form or the three-length codeword, the same body
// rules encodeBody/decodeBody apply per-element.
func encodeScalar(w *bitio.Writer, v uint64, rung int) {
	if rung == 0 {
		w.WriteBits(v&1, 1)
		return
	}
	encodeValue(w, v, rung)
}

func decodeScalar(rdr *bitio.Reader, rung int) uint64 {
	if rung == 0 {
		return rdr.Pull(1)
	}
	return decodeValue(rdr, rung)
}
