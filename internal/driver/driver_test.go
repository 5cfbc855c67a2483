package driver

import (
	"math/rand"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/qb3go/qb3/internal/bitio"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cases := []struct {
		name          string
		width, height int
		bands         int
		sampleWidth   int
	}{
		{"single-band-aligned", 8, 8, 1, 8},
		{"rgb-default-coreband", 8, 4, 3, 8},
		{"u16-random", 8, 8, 1, 16},
		{"non-multiple-of-4", 7, 5, 2, 8},
		{"u64-wide", 4, 4, 1, 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := c.width * c.height * c.bands
			image := make([]uint64, n)
			mask := sampleMask(c.sampleWidth)
			for i := range image {
				image[i] = rng.Uint64() & mask
			}
			p := Params{
				Width: c.width, Height: c.height, Bands: c.bands,
				SampleWidth: c.sampleWidth, CoreBands: DefaultCoreBands(c.bands),
			}
			w := bitio.NewWriter(64)
			encSt := NewState(c.bands)
			if err := Encode(w, image, p, encSt); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			r := bitio.NewReader(w.Bytes())
			got := make([]uint64, n)
			decSt := NewState(c.bands)
			if err := Decode(r, got, p, decSt); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			for i := range image {
				if got[i] != image[i] {
					t.Fatalf("sample %d: got %d want %d", i, got[i], image[i])
				}
			}
		})
	}
}

func TestEncodeDecodeAllZero(t *testing.T) {
	c := qt.New(t)
	const w, h, bands, width = 8, 8, 1, 8
	image := make([]uint64, w*h*bands)
	p := Params{Width: w, Height: h, Bands: bands, SampleWidth: width, CoreBands: DefaultCoreBands(bands)}
	wr := bitio.NewWriter(16)
	c.Assert(Encode(wr, image, p, NewState(bands)), qt.IsNil)
	got := make([]uint64, w*h*bands)
	c.Assert(Decode(bitio.NewReader(wr.Bytes()), got, p, NewState(bands)), qt.IsNil)
	c.Assert(got, qt.DeepEquals, image)
}

func TestValidateRejectsBadCoreBandChain(t *testing.T) {
	c := qt.New(t)
	p := Params{Width: 8, Height: 8, Bands: 3, SampleWidth: 8, CoreBands: []int{1, 2, 1}}
	c.Assert(p.validate(), qt.IsNotNil)
}

func sampleMask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}
