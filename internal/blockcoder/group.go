package blockcoder

import (
	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/scan"
)

// EncodeGroup writes one rung-switch-prefixed, step-down-normalized group
// of 16 mag-sign values and returns the rung it was coded at (the new
// runbits[c] state for the band).
func EncodeGroup(w *bitio.Writer, group [scan.B2]uint64, oldRung, width int) (newRung int) {
	max := maxOf(group)
	rung := Rung(max)
	encodeSwitch(w, switchDelta(rung, oldRung, width), width, false)
	encodeBody(w, group, rung, max)
	return rung
}

// DecodeGroup is EncodeGroup's exact inverse. It reads the switch prefix
// itself and treats the block as regular; it does not handle CF-coded
// blocks, which DecodeBlock (block.go) dispatches to DecodeCF.
func DecodeGroup(rdr *bitio.Reader, oldRung, width int) (group [scan.B2]uint64, newRung int) {
	sc := decodeSwitch(rdr, width)
	rung := (oldRung + int(sc.delta)) % width
	return decodeBody(rdr, rung), rung
}

// switchDelta computes (rung - oldRung) mod width as a value in [0, width).
func switchDelta(rung, oldRung, width int) uint64 {
	d := (rung - oldRung) % width
	if d < 0 {
		d += width
	}
	return uint64(d)
}

// encodeBody writes the 16-value payload once the rung is known: the
// rung == 0 special case (a single maxval flag, followed by 16 raw bits
// only when the block isn't all zero), or step-down plus one three-length
// codeword per value.
func encodeBody(w *bitio.Writer, group [scan.B2]uint64, rung int, max uint64) {
	if rung == 0 {
		if max == 0 {
			w.WriteBits(0, 1)
			return
		}
		w.WriteBits(1, 1)
		for _, v := range group {
			w.WriteBits(v&1, 1)
		}
		return
	}
	applyStepDown(&group, rung)
	for _, v := range group {
		encodeValue(w, v, rung)
	}
}

// decodeBody is encodeBody's inverse.
func decodeBody(rdr *bitio.Reader, rung int) [scan.B2]uint64 {
	var group [scan.B2]uint64
	if rung == 0 {
		if rdr.Get() == 0 {
			return group
		}
		for i := range group {
			group[i] = rdr.Pull(1)
		}
		return group
	}
	for i := range group {
		group[i] = decodeValue(rdr, rung)
	}
	// A step-down, if one was applied, always clears the rung bit of the
	// last (scan-order) element; that's a necessary but not sufficient
	// condition, so undoStepDown re-checks the full step pattern before
	// acting.
	if (group[scan.B2-1]>>uint(rung))&1 == 0 {
		undoStepDown(&group, rung)
	}
	return group
}
