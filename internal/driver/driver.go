// Package driver ties together the per-band decorrelation
// (internal/decorrelate) and block coding (internal/blockcoder) into a
// raster-order pass over a full image: iterating 4x4 blocks, applying the
// boundary-block shift for rasters whose dimensions aren't a multiple of
// four, and carrying each band's running predictor and rung state across
// blocks.
//
// Blocks are band-interleaved (all bands of one block before moving to
// the next block), in raster-major order, with the last row/column of
// blocks shifted left/up to stay in bounds rather than padded. Core-band
// decorrelation is undone as a second pass per block: a band only ever
// depends on its own (always-independent) core band within the same
// block, so the correction can happen at block granularity rather than
// needing a separate row-strip pass.
package driver

import (
	"fmt"

	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/blockcoder"
	"github.com/qb3go/qb3/internal/decorrelate"
	"github.com/qb3go/qb3/internal/magsign"
	"github.com/qb3go/qb3/internal/scan"
)

// State holds the per-band predictor and rung that persist across blocks
// (and, for a streaming caller, across separate Encode/Decode calls on the
// same image).
type State struct {
	Prev    []uint64
	Runbits []int
}

// NewState returns a fresh per-band state: predictor 0, rung 0.
func NewState(bands int) *State {
	return &State{Prev: make([]uint64, bands), Runbits: make([]int, bands)}
}

// DefaultCoreBands returns the identity core-band map, except for 3- or
// 4-band images where bands 0 and 2 decorrelate against band 1 (an R-G,
// B-G assumption for RGB(A) data).
func DefaultCoreBands(bands int) []int {
	cband := make([]int, bands)
	for i := range cband {
		cband[i] = i
	}
	if bands == 3 || bands == 4 {
		cband[0], cband[2] = 1, 1
	}
	return cband
}

// Params describes one image's raster geometry and per-band configuration.
type Params struct {
	Width, Height int
	Bands         int
	SampleWidth   int // W: 8, 16, 32 or 64
	CoreBands     []int
}

func (p Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("driver: invalid raster size %dx%d", p.Width, p.Height)
	}
	if p.Width < scan.Side || p.Height < scan.Side {
		return fmt.Errorf("driver: raster smaller than a %dx%d block", scan.Side, scan.Side)
	}
	if p.Bands <= 0 {
		return fmt.Errorf("driver: invalid band count %d", p.Bands)
	}
	if len(p.CoreBands) != p.Bands {
		return fmt.Errorf("driver: core-band map length %d != %d bands", len(p.CoreBands), p.Bands)
	}
	for c, cb := range p.CoreBands {
		if cb < 0 || cb >= p.Bands {
			return fmt.Errorf("driver: core-band index %d out of range", cb)
		}
		// A core band must itself be independent: no chains, so a
		// dependent band's correction always has a fully reconstructed
		// base to read from.
		if cb != c && p.CoreBands[cb] != cb {
			return fmt.Errorf("driver: core band %d for band %d is itself dependent", cb, c)
		}
	}
	switch p.SampleWidth {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("driver: unsupported sample width %d", p.SampleWidth)
	}
	return nil
}

// forEachBlock calls fn with the top-left (x,y) of every 4x4 block in
// raster-major order, applying the boundary shift for the last row/column.
func forEachBlock(p Params, fn func(x, y int)) {
	y := 0
	for {
		by := y
		if by+scan.Side > p.Height {
			by = p.Height - scan.Side
		}
		x := 0
		for {
			bx := x
			if bx+scan.Side > p.Width {
				bx = p.Width - scan.Side
			}
			fn(bx, by)
			if bx+scan.Side >= p.Width {
				break
			}
			x += scan.Side
		}
		if by+scan.Side >= p.Height {
			break
		}
		y += scan.Side
	}
}

// Encode writes the full image (samples in row-major, band-interleaved
// order, each value already masked to p.SampleWidth bits) to w, updating
// st in place.
func Encode(w *bitio.Writer, image []uint64, p Params, st *State) error {
	if err := p.validate(); err != nil {
		return err
	}
	mask := magsign.Mask(p.SampleWidth)
	forEachBlock(p, func(bx, by int) {
		for c := 0; c < p.Bands; c++ {
			cb := p.CoreBands[c]
			var raw [scan.B2]uint64
			for i := 0; i < scan.B2; i++ {
				px := (by+scan.Y[i])*p.Width + (bx + scan.X[i])
				v := image[px*p.Bands+c]
				if cb != c {
					v = (v - image[px*p.Bands+cb]) & mask
				}
				raw[i] = v
			}
			group, newPrev := decorrelate.Forward(raw, st.Prev[c], p.SampleWidth)
			st.Prev[c] = newPrev
			st.Runbits[c] = blockcoder.EncodeBlock(w, group, st.Runbits[c], p.SampleWidth)
		}
	})
	return nil
}

// Decode reads one full image back from r, updating st in place and
// writing the reconstructed samples into image (row-major,
// band-interleaved, caller-sized to width*height*bands).
func Decode(r *bitio.Reader, image []uint64, p Params, st *State) error {
	if err := p.validate(); err != nil {
		return err
	}
	mask := magsign.Mask(p.SampleWidth)
	forEachBlock(p, func(bx, by int) {
		for c := 0; c < p.Bands; c++ {
			group, newRung := blockcoder.DecodeBlock(r, st.Runbits[c], p.SampleWidth)
			st.Runbits[c] = newRung
			values, newPrev := decorrelate.Inverse(group, st.Prev[c], p.SampleWidth)
			st.Prev[c] = newPrev
			for i := 0; i < scan.B2; i++ {
				px := (by+scan.Y[i])*p.Width + (bx + scan.X[i])
				image[px*p.Bands+c] = values[i]
			}
		}
		// Undo core-band decorrelation: a dependent band was coded as a
		// raw difference against its (always-independent) core band,
		// which by now holds its own reconstructed absolute value.
		for c := 0; c < p.Bands; c++ {
			cb := p.CoreBands[c]
			if cb == c {
				continue
			}
			for i := 0; i < scan.B2; i++ {
				px := (by+scan.Y[i])*p.Width + (bx + scan.X[i])
				idx := px*p.Bands + c
				image[idx] = (image[idx] + image[px*p.Bands+cb]) & mask
			}
		}
	})
	return nil
}
