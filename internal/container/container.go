// Package container implements QB3's formatted-mode wire framing: a
// 12-byte fixed header followed by zero or more TAG/LEN/PAYLOAD chunks and
// the raw block stream.
package container

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 12

var magic = [4]byte{'Q', 'B', '3', 0x80}

// DType enumerates the wire data-type codes, in their fixed wire order.
type DType uint8

const (
	U8 DType = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
)

// SampleWidth returns the bit width (8/16/32/64) of a data type code.
func (d DType) SampleWidth() int {
	switch d {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	default:
		return 0
	}
}

// Signed reports whether the data type is a signed integer type.
func (d DType) Signed() bool {
	switch d {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (d DType) valid() bool { return d <= I64 }

// Mode enumerates the wire mode codes. Only Base, CF, Best and Stored are
// implemented by this module; the others are declared so a conformant
// decoder recognizes — but rejects — them, distinguishing an unrecognized
// mode byte from a recognized-but-unsupported one.
type Mode uint8

const (
	Base Mode = iota
	BaseZ
	CFH
	RLEH
	Best
	CF
	RLE
	CFRLE
	Stored
	FTL
)

func (m Mode) valid() bool { return m <= FTL }

// implemented reports whether this module's driver/blockcoder packages
// actually support the mode, as opposed to merely recognizing its code.
func (m Mode) implemented() bool {
	switch m {
	case Base, Best, CF, Stored:
		return true
	default:
		return false
	}
}

// Header is the fixed 12-byte preamble.
type Header struct {
	Width, Height int
	Bands         int
	Type          DType
	Mode          Mode
}

// Marshal encodes the header into a 12-byte slice.
func (h Header) Marshal() ([]byte, error) {
	if h.Width <= 0 || h.Width > 0x10000 || h.Height <= 0 || h.Height > 0x10000 {
		return nil, fmt.Errorf("container: dimensions %dx%d out of range", h.Width, h.Height)
	}
	if h.Bands <= 0 || h.Bands > 10 {
		return nil, fmt.Errorf("container: band count %d out of range", h.Bands)
	}
	if !h.Type.valid() {
		return nil, fmt.Errorf("container: invalid data type code %d", h.Type)
	}
	if !h.Mode.valid() {
		return nil, fmt.Errorf("container: invalid mode code %d", h.Mode)
	}
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], uint16(h.Width-1))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(h.Height-1))
	buf[8] = byte(h.Bands - 1)
	buf[9] = byte(h.Type)
	buf[10] = byte(h.Mode)
	buf[11] = 0
	return buf, nil
}

// UnmarshalHeader parses the fixed 12-byte preamble.
func UnmarshalHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("container: truncated header (%d bytes)", len(buf))
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		return Header{}, fmt.Errorf("container: bad magic")
	}
	if buf[11]&0x80 != 0 {
		return Header{}, fmt.Errorf("container: reserved bit set")
	}
	dt := DType(buf[9])
	if !dt.valid() {
		return Header{}, fmt.Errorf("container: unrecognized data type code %d", buf[9])
	}
	md := Mode(buf[10])
	if !md.valid() {
		return Header{}, fmt.Errorf("container: unrecognized mode code %d", buf[10])
	}
	return Header{
		Width:  int(binary.LittleEndian.Uint16(buf[4:6])) + 1,
		Height: int(binary.LittleEndian.Uint16(buf[6:8])) + 1,
		Bands:  int(buf[8]) + 1,
		Type:   dt,
		Mode:   md,
	}, nil
}

// Chunk tags.
const (
	TagQuanta    = "QV"
	TagCoreBands = "CB"
	TagData      = "DT"
)

// Chunk is one TAG/LEN/PAYLOAD entry.
type Chunk struct {
	Tag     string
	Payload []byte
}

// MarshalChunk encodes one chunk.
func MarshalChunk(tag string, payload []byte) ([]byte, error) {
	if len(tag) != 2 {
		return nil, fmt.Errorf("container: chunk tag %q must be 2 bytes", tag)
	}
	if len(payload) > 0xffff {
		return nil, fmt.Errorf("container: chunk payload too large (%d bytes)", len(payload))
	}
	buf := make([]byte, 4+len(payload))
	buf[0], buf[1] = tag[0], tag[1]
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[4:], payload)
	return buf, nil
}

// ReadChunk reads one chunk from the front of buf, returning it and the
// number of bytes consumed.
func ReadChunk(buf []byte) (Chunk, int, error) {
	if len(buf) < 4 {
		return Chunk{}, 0, fmt.Errorf("container: truncated chunk header")
	}
	tag := string(buf[0:2])
	length := int(binary.LittleEndian.Uint16(buf[2:4]))
	if len(buf) < 4+length {
		return Chunk{}, 0, fmt.Errorf("container: truncated chunk payload for tag %q", tag)
	}
	payload := buf[4 : 4+length]
	return Chunk{Tag: tag, Payload: payload}, 4 + length, nil
}
