package qb3

import (
	"fmt"

	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/container"
	"github.com/qb3go/qb3/internal/driver"
	"github.com/qb3go/qb3/internal/scan"
)

const maxDim = 0x10000
const maxBands = 10

// Encoder holds one encode session's configuration and running state. Not
// safe for concurrent use by multiple goroutines: the block coder runs
// single-threaded and synchronously against one running predictor/rung
// state per band.
type Encoder struct {
	width, height int
	bands         int
	dtype         DataType
	cband         []int
	quanta        int64
	away          bool
	mode          Mode

	err *Error
}

// NewEncoder creates an encoder for a width x height raster with the given
// band count and sample type, or returns an error if the dimensions or
// band count are out of range.
func NewEncoder(width, height, bands int, dtype DataType) (*Encoder, error) {
	if width < scan.Side || width > maxDim || height < scan.Side || height > maxDim {
		return nil, newError("NewEncoder", InvalidArgument, fmt.Errorf("dimensions %dx%d out of range", width, height))
	}
	if bands <= 0 || bands > maxBands {
		return nil, newError("NewEncoder", InvalidArgument, fmt.Errorf("band count %d out of range", bands))
	}
	return &Encoder{
		width: width, height: height, bands: bands, dtype: dtype,
		cband: driver.DefaultCoreBands(bands), quanta: 1, mode: Base,
	}, nil
}

// SetCoreBands overrides the per-band core-band map. Out-of-range entries
// are clamped to identity, and any target band is forced independent.
func (e *Encoder) SetCoreBands(cband []int) bool {
	if len(cband) != e.bands {
		return false
	}
	out := make([]int, e.bands)
	for i, c := range cband {
		if c < 0 || c >= e.bands {
			c = i
		}
		out[i] = c
	}
	for i, c := range out {
		if c != i {
			out[c] = c
		}
	}
	e.cband = out
	return true
}

// SetQuanta sets the quantization step (q >= 2 to enable quantization) and
// rounding direction. Rejects q too large for the sample type.
func (e *Encoder) SetQuanta(q int, away bool) bool {
	if q < 1 {
		return false
	}
	_, max := typeRange(e.dtype)
	if int64(q) > max {
		return false
	}
	e.quanta = int64(q)
	e.away = away
	return true
}

// SetMode selects the encoder variant. Only Base, Best, CF and Stored are
// implemented; any other (recognized but unimplemented, or unrecognized)
// mode code is rejected, and the previous mode is retained.
func (e *Encoder) SetMode(m Mode) Mode {
	if !modeValid(m) || !modeImplemented(m) {
		return e.mode
	}
	e.mode = m
	return e.mode
}

// MaxEncodedSize returns an upper bound on the encoded size in bytes: the
// ceil-to-4x4 pixel count times (8*bytes + 17/16) bits, plus a fixed
// container/slack allowance.
func (e *Encoder) MaxEncodedSize() int {
	blocksX := (e.width + 3) / 4
	blocksY := (e.height + 3) / 4
	pixels := blocksX * 4 * blocksY * 4
	bytesPerSample := e.dtype.SampleWidth() / 8
	bits := pixels * e.bands * (8*bytesPerSample*16 + 17) / 16
	return (bits+7)/8 + 1024
}

// Encode writes the formatted-mode container (header, chunks, raw block
// stream) for src into dst and returns the number of bytes written, or an
// error. src holds width*height*bands samples in row-major, band-
// interleaved order, each within the sample type's range.
func (e *Encoder) Encode(src []int64, dst []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if src == nil || dst == nil {
		err := newError("Encode", StateMisuse, fmt.Errorf("nil source or destination buffer"))
		e.err = err
		return 0, err
	}
	want := e.width * e.height * e.bands
	if len(src) != want {
		err := newError("Encode", InvalidArgument, fmt.Errorf("src has %d samples, want %d", len(src), want))
		e.err = err
		return 0, err
	}

	w := bitio.NewWriter(e.MaxEncodedSize())
	hdr := container.Header{Width: e.width, Height: e.height, Bands: e.bands, Type: e.dtype, Mode: e.mode}
	hbuf, err := hdr.Marshal()
	if err != nil {
		wrapped := newError("Encode", InvalidArgument, err)
		e.err = wrapped
		return 0, wrapped
	}
	out := append([]byte{}, hbuf...)

	if e.quanta >= 2 {
		qv, _ := container.MarshalChunk(container.TagQuanta, encodeQuanta(e.quanta))
		out = append(out, qv...)
	}
	if !isIdentityCoreBands(e.cband) {
		cb, _ := container.MarshalChunk(container.TagCoreBands, encodeCoreBands(e.cband))
		out = append(out, cb...)
	}
	dt, _ := container.MarshalChunk(container.TagData, nil)
	out = append(out, dt...)

	sampleWidth := e.dtype.SampleWidth()
	image := make([]uint64, want)
	min, max := typeRange(e.dtype)
	for i, v := range src {
		qv := v
		if e.quanta >= 2 {
			qv = quantizeEncode(v, e.quanta, e.away)
		}
		if qv < min {
			qv = min
		}
		if qv > max {
			qv = max
		}
		image[i] = toWire(qv, sampleWidth)
	}

	p := driver.Params{Width: e.width, Height: e.height, Bands: e.bands, SampleWidth: sampleWidth, CoreBands: e.cband}
	st := driver.NewState(e.bands)
	if e.mode == Stored {
		writeStored(w, image, sampleWidth)
	} else if err := driver.Encode(w, image, p, st); err != nil {
		wrapped := newError("Encode", InvalidArgument, err)
		e.err = wrapped
		return 0, wrapped
	}

	out = append(out, w.Bytes()...)
	if len(dst) < len(out) {
		err := newError("Encode", InvalidArgument, fmt.Errorf("dst has %d bytes, need %d", len(dst), len(out)))
		e.err = err
		return 0, err
	}
	n := copy(dst, out)
	return n, nil
}

func writeStored(w *bitio.Writer, image []uint64, sampleWidth int) {
	for _, v := range image {
		w.WriteBits(v, sampleWidth)
	}
}

func encodeQuanta(q int64) []byte {
	switch {
	case q <= 0xff:
		return []byte{byte(q)}
	case q <= 0xffff:
		return []byte{byte(q), byte(q >> 8)}
	case q <= 0xffffff:
		return []byte{byte(q), byte(q >> 8), byte(q >> 16)}
	default:
		return []byte{byte(q), byte(q >> 8), byte(q >> 16), byte(q >> 24)}
	}
}

func decodeQuanta(b []byte) int64 {
	var q int64
	for i, v := range b {
		q |= int64(v) << uint(8*i)
	}
	return q
}

func isIdentityCoreBands(cband []int) bool {
	for i, c := range cband {
		if c != i {
			return false
		}
	}
	return true
}

func encodeCoreBands(cband []int) []byte {
	out := make([]byte, len(cband))
	for i, c := range cband {
		out[i] = byte(c)
	}
	return out
}

func decodeCoreBands(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
