package blockcoder

import "github.com/qb3go/qb3/internal/bitio"

// mask64 returns the n-bit mask (2^n - 1), n in [0,64].
func mask64(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// This implementation computes the three-length codeword at every rung
// >= 1 directly from the bit formulas below, rather than from a
// precomputed per-rung table. Rung 0 is handled separately by the caller
// (group.go), since it uses a direct bit-flag encoding, not a per-value
// codeword.

// encodeValue writes v using the three-length family at rung r (r >= 1).
// v must be representable, i.e. < 2^(r+1) except at r == maxRung (W-1,
// W==64) where the caller guarantees v < 2^64.
func encodeValue(w *bitio.Writer, v uint64, r int) {
	top := v >> uint(r)
	nxt := (v >> uint(r-1)) & 1
	switch {
	case top == 0 && nxt == 0: // SHORT: r bits
		w.WriteBits(v<<1, r)
	case top == 0 && nxt == 1: // NOMINAL: r+1 bits
		code := ((v<<1)^(uint64(1)<<uint(r)))<<1 | 1
		w.WriteBits(code, r+1)
	default: // LONG: r+2 bits, possibly overflowing 64 bits at r == 63
		length := r + 2
		code := ((v ^ (uint64(1) << uint(r))) << 2) | 3
		if length <= 64 {
			w.WriteBits(code, length)
			return
		}
		// Only reachable at r == 63 (W == 64): the code needs 65 bits.
		// code as a uint64 already holds the low 64 bits (the top
		// payload bit silently fell off the left during the shift);
		// emit those 64 bits, then the dropped bit separately.
		extra := (v >> uint(r-1)) & 1
		w.WriteBits(code, 64)
		w.WriteBits(extra, 1)
	}
}

// decodeValue reads one three-length codeword at rung r (r >= 1).
func decodeValue(rdr *bitio.Reader, r int) uint64 {
	val := rdr.Peek()
	if val&1 == 0 { // SHORT
		length := r
		x := (val & mask64(r)) >> 1
		rdr.Advance(length)
		return x
	}
	if val&2 == 0 { // NOMINAL
		length := r + 1
		x := ((val >> 2) & mask64(r)) | (uint64(1) << uint(r-1))
		rdr.Advance(length)
		return x
	}
	length := r + 2
	if length <= 64 { // LONG, no overflow
		x := ((val >> 2) & mask64(r)) | (uint64(1) << uint(r))
		rdr.Advance(length)
		return x
	}
	// LONG overflow split (r == 63, W == 64): 64 header+low-payload
	// bits already peeked, plus one more bit appended past them.
	payloadLow := (val >> 2) & mask64(r-1)
	rdr.Advance(64)
	extra := rdr.Get()
	payload := payloadLow | (extra << uint(r-1))
	return payload | (uint64(1) << uint(r))
}
