package qb3

import "testing"

func TestQuantizeRoundTripWithinBound(t *testing.T) {
	min, max := typeRange(U8)
	for q := int64(2); q <= 16; q++ {
		for x := min; x <= max; x++ {
			qv := quantizeEncode(x, q, false)
			rec := quantizeDecode(qv, q, min, max)
			if diff := rec - x; diff > q/2 || diff < -(q/2) {
				t.Fatalf("q=%d x=%d: reconstruction error %d exceeds bound %d", q, x, diff, q/2)
			}
		}
	}
}

func TestQuantizeAwayFromZeroRoundsOutward(t *testing.T) {
	// At an exact half (x=3, q=2 -> 1.5), away-from-zero rounds to 2.
	if got := quantizeEncode(3, 2, true); got != 2 {
		t.Fatalf("got %d want 2", got)
	}
	if got := quantizeEncode(-3, 2, true); got != -2 {
		t.Fatalf("got %d want -2", got)
	}
}

func TestQuantizeTowardZeroRoundsInward(t *testing.T) {
	if got := quantizeEncode(3, 2, false); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
	if got := quantizeEncode(-3, 2, false); got != -1 {
		t.Fatalf("got %d want -1", got)
	}
}

func TestQuantizeDecodeClamps(t *testing.T) {
	min, max := typeRange(I8)
	got := quantizeDecode(100, 3, min, max)
	if got != max {
		t.Fatalf("got %d want %d", got, max)
	}
}
