// Package blockcoder, block.go: the per-(band,block) entry point the
// driver package calls. Chooses between the regular rung-switch coding
// and the Common-Factor alternative for each 16-value group.
package blockcoder

import (
	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/scan"
)

// EncodeBlock encodes one band's 16-value group, trying the Common-Factor
// coding whenever a useful factor exists, and returns the updated runbits
// state for the band. rung == 0 groups (all values 0 or 1, mag-sign) never
// benefit from CF and go straight to the regular path.
func EncodeBlock(w *bitio.Writer, group [scan.B2]uint64, oldRung, width int) (newRung int) {
	rung := Rung(maxOf(group))
	if rung > 0 {
		if cf := GCF(group); cf >= 2 {
			encodeSwitch(w, 0, width, true)
			EncodeCF(w, group, cf, width)
			return rung
		}
	}
	return EncodeGroup(w, group, oldRung, width)
}

// DecodeBlock is EncodeBlock's exact inverse.
func DecodeBlock(rdr *bitio.Reader, oldRung, width int) (group [scan.B2]uint64, newRung int) {
	sc := decodeSwitch(rdr, width)
	if sc.cf {
		return DecodeCF(rdr, width)
	}
	rung := (oldRung + int(sc.delta)) % width
	return decodeBody(rdr, rung), rung
}
