package qb3

import (
	"fmt"
	"strings"

	"github.com/qb3go/qb3/internal/bitio"
	"github.com/qb3go/qb3/internal/container"
	"github.com/qb3go/qb3/internal/driver"
)

// Decoder reads one formatted-mode QB3 stream: a fixed header, a run of
// chunks, and a raw block stream. Mirrors the split of NewEncoder/Encode
// on the write side: ReadStart opens the stream,
// ReadInfo parses the header and chunks so callers can size a
// destination buffer from Width/Height/Bands/Type, and ReadData runs the
// actual block decode.
type Decoder struct {
	buf      []byte
	pos      int // byte offset where the raw block stream begins
	hdr      container.Header
	quanta   int64
	cband    []int
	infoRead bool
	err      *Error
}

// ReadStart opens buf for reading. It does not parse anything yet; call
// ReadInfo before ReadData.
func ReadStart(buf []byte) (*Decoder, error) {
	if len(buf) < container.HeaderSize {
		return nil, newError("ReadStart", Truncation, ErrTruncated)
	}
	return &Decoder{buf: buf}, nil
}

// NewDecoderRaw wraps a headerless raw block stream (as produced by
// EncodeRaw) with caller-supplied geometry, for embedding QB3-coded data
// inside another container format. A nil cband selects the same default
// core-band map NewEncoder would use.
func NewDecoderRaw(raw []byte, width, height, bands int, dtype DataType, cband []int) (*Decoder, error) {
	if cband == nil {
		cband = driver.DefaultCoreBands(bands)
	}
	if len(cband) != bands {
		return nil, newError("NewDecoderRaw", InvalidArgument, fmt.Errorf("core-band map length %d != %d bands", len(cband), bands))
	}
	return &Decoder{
		buf:      raw,
		hdr:      container.Header{Width: width, Height: height, Bands: bands, Type: dtype, Mode: Base},
		quanta:   1,
		cband:    cband,
		infoRead: true,
	}, nil
}

// ReadInfo parses the header and any chunks preceding the data chunk,
// populating Width/Height/Bands/Type/Mode. Safe to call more than once.
func (d *Decoder) ReadInfo() error {
	if d.err != nil {
		return d.err
	}
	if d.infoRead {
		return nil
	}
	hdr, err := container.UnmarshalHeader(d.buf[:container.HeaderSize])
	if err != nil {
		e := classifyHeaderErr(err)
		d.err = e
		return e
	}
	d.hdr = hdr
	d.quanta = 1
	d.cband = driver.DefaultCoreBands(hdr.Bands)

	pos := container.HeaderSize
	for {
		chunk, n, err := container.ReadChunk(d.buf[pos:])
		if err != nil {
			e := newError("ReadInfo", Truncation, fmt.Errorf("%w: %v", ErrTruncated, err))
			d.err = e
			return e
		}
		pos += n
		var bad error
		switch chunk.Tag {
		case container.TagQuanta:
			if len(chunk.Payload) < 1 || len(chunk.Payload) > 4 {
				bad = fmt.Errorf("quanta chunk length %d", len(chunk.Payload))
			}
			d.quanta = decodeQuanta(chunk.Payload)
		case container.TagCoreBands:
			if len(chunk.Payload) != hdr.Bands {
				bad = fmt.Errorf("core-band chunk length %d != %d bands", len(chunk.Payload), hdr.Bands)
			}
			d.cband = decodeCoreBands(chunk.Payload)
		case container.TagData:
			d.pos = pos
			d.infoRead = true
			return nil
		default:
			bad = fmt.Errorf("unknown chunk tag %q", chunk.Tag)
		}
		if bad != nil {
			e := newError("ReadInfo", Format, bad)
			d.err = e
			return e
		}
	}
}

func classifyHeaderErr(err error) *Error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "bad magic"):
		return newError("ReadInfo", Format, ErrBadMagic)
	case strings.Contains(msg, "reserved bit"):
		return newError("ReadInfo", Format, ErrReservedBitSet)
	case strings.Contains(msg, "data type"):
		return newError("ReadInfo", Format, ErrUnknownType)
	case strings.Contains(msg, "mode code"):
		return newError("ReadInfo", Format, ErrUnknownMode)
	case strings.Contains(msg, "truncated"):
		return newError("ReadInfo", Truncation, ErrTruncated)
	default:
		return newError("ReadInfo", Format, err)
	}
}

// Width, Height, Bands, Type and Mode report the values ReadInfo parsed.
// Calling any of them before ReadInfo returns the zero value.
func (d *Decoder) Width() int       { return d.hdr.Width }
func (d *Decoder) Height() int      { return d.hdr.Height }
func (d *Decoder) Bands() int       { return d.hdr.Bands }
func (d *Decoder) Type() DataType   { return d.hdr.Type }
func (d *Decoder) Mode() Mode       { return d.hdr.Mode }
func (d *Decoder) SampleCount() int { return d.hdr.Width * d.hdr.Height * d.hdr.Bands }

// ReadData decodes the raster into dst, which must be sized exactly
// Width()*Height()*Bands(). Returns the number of samples written.
func (d *Decoder) ReadData(dst []int64) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if !d.infoRead {
		e := newError("ReadData", StateMisuse, ErrHandleClosed)
		d.err = e
		return 0, e
	}
	want := d.SampleCount()
	if len(dst) != want {
		e := newError("ReadData", InvalidArgument, fmt.Errorf("dst has %d samples, want %d", len(dst), want))
		d.err = e
		return 0, e
	}
	if !modeImplemented(d.hdr.Mode) {
		e := newError("ReadData", Format, ErrModeUnsupported)
		d.err = e
		return 0, e
	}

	sampleWidth := d.hdr.Type.SampleWidth()
	image := make([]uint64, want)
	r := bitio.NewReader(d.buf[d.pos:])
	if d.hdr.Mode == Stored {
		for i := range image {
			image[i] = r.Pull(sampleWidth)
		}
	} else {
		p := driver.Params{Width: d.hdr.Width, Height: d.hdr.Height, Bands: d.hdr.Bands, SampleWidth: sampleWidth, CoreBands: d.cband}
		st := driver.NewState(d.hdr.Bands)
		if err := driver.Decode(r, image, p, st); err != nil {
			e := newError("ReadData", Format, err)
			d.err = e
			return 0, e
		}
	}

	min, max := typeRange(d.hdr.Type)
	signed := d.hdr.Type.Signed()
	for i, bits := range image {
		v := fromWire(bits, sampleWidth, signed)
		if d.quanta >= 2 {
			v = quantizeDecode(v, d.quanta, min, max)
		}
		dst[i] = v
	}
	return want, nil
}

// Decode is a one-call convenience wrapper equivalent to
// ReadStart/ReadInfo/ReadData, returning the reconstructed samples.
func Decode(buf []byte) ([]int64, Header, error) {
	dec, err := ReadStart(buf)
	if err != nil {
		return nil, Header{}, err
	}
	if err := dec.ReadInfo(); err != nil {
		return nil, Header{}, err
	}
	dst := make([]int64, dec.SampleCount())
	if _, err := dec.ReadData(dst); err != nil {
		return nil, Header{}, err
	}
	return dst, Header{Width: dec.Width(), Height: dec.Height(), Bands: dec.Bands(), Type: dec.Type(), Mode: dec.Mode()}, nil
}

// Header summarizes a decoded stream's geometry and encoding, returned by
// the Decode convenience function.
type Header struct {
	Width, Height int
	Bands         int
	Type          DataType
	Mode          Mode
}

// EncodeRaw encodes src as a headerless raw block stream (no container
// framing, no quanta/core-band chunks): just the per-band block codes, for
// embedding inside another format. Quantization is not applied; src must
// already be two's-complement values within dtype's range.
func EncodeRaw(src []int64, width, height, bands int, dtype DataType, cband []int) ([]byte, error) {
	if cband == nil {
		cband = driver.DefaultCoreBands(bands)
	}
	want := width * height * bands
	if len(src) != want {
		return nil, newError("EncodeRaw", InvalidArgument, fmt.Errorf("src has %d samples, want %d", len(src), want))
	}
	sampleWidth := dtype.SampleWidth()
	image := make([]uint64, want)
	for i, v := range src {
		image[i] = toWire(v, sampleWidth)
	}
	p := driver.Params{Width: width, Height: height, Bands: bands, SampleWidth: sampleWidth, CoreBands: cband}
	st := driver.NewState(bands)
	w := bitio.NewWriter(want)
	if err := driver.Encode(w, image, p, st); err != nil {
		return nil, newError("EncodeRaw", InvalidArgument, err)
	}
	return w.Bytes(), nil
}

// DecodeRaw is the inverse of EncodeRaw: it decodes a headerless raw block
// stream given the geometry out of band.
func DecodeRaw(raw []byte, width, height, bands int, dtype DataType, cband []int) ([]int64, error) {
	dec, err := NewDecoderRaw(raw, width, height, bands, dtype, cband)
	if err != nil {
		return nil, err
	}
	dst := make([]int64, dec.SampleCount())
	if _, err := dec.ReadData(dst); err != nil {
		return nil, err
	}
	return dst, nil
}
