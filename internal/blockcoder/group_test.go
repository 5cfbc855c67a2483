package blockcoder

import (
	"math/rand"
	"testing"

	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/scan"
)

func TestGroupRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, width := range []int{8, 16, 32, 64} {
		mask := magMask(width)
		for trial := 0; trial < 300; trial++ {
			var group [scan.B2]uint64
			for i := range group {
				group[i] = rng.Uint64() & mask
			}
			oldRung := rng.Intn(width)
			w := bitio.NewWriter(32)
			newRung := EncodeGroup(w, group, oldRung, width)
			r := bitio.NewReader(w.Bytes())
			got, gotRung := DecodeGroup(r, oldRung, width)
			if got != group || gotRung != newRung {
				t.Fatalf("width=%d trial=%d: got %v/%d want %v/%d", width, trial, got, gotRung, group, newRung)
			}
		}
	}
}

func TestGroupConstantMaxRung(t *testing.T) {
	// All elements equal to the representable maximum forces rung == W-1.
	const width = 8
	var group [scan.B2]uint64
	for i := range group {
		group[i] = magMask(width)
	}
	w := bitio.NewWriter(8)
	newRung := EncodeGroup(w, group, 0, width)
	if newRung != width-1 {
		t.Fatalf("newRung = %d, want %d", newRung, width-1)
	}
	r := bitio.NewReader(w.Bytes())
	got, gotRung := DecodeGroup(r, 0, width)
	if got != group || gotRung != newRung {
		t.Fatalf("got %v/%d want %v/%d", got, gotRung, group, newRung)
	}
}
