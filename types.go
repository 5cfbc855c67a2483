package qb3

import "github.com/qb3go/qb3/internal/container"

// DataType is the public alias of the wire data-type code.
type DataType = container.DType

const (
	U8  = container.U8
	I8  = container.I8
	U16 = container.U16
	I16 = container.I16
	U32 = container.U32
	I32 = container.I32
	U64 = container.U64
	I64 = container.I64
)

// Mode is the public alias of the wire mode code. Only Base, Best, CF and
// Stored are implemented; the others are recognized on decode, so a
// conformant decoder distinguishes "not a valid mode byte" from "a valid
// mode this build doesn't implement", but SetMode rejects them.
type Mode = container.Mode

const (
	Base   = container.Base
	BaseZ  = container.BaseZ
	CFH    = container.CFH
	RLEH   = container.RLEH
	Best   = container.Best
	CF     = container.CF
	RLE    = container.RLE
	CFRLE  = container.CFRLE
	Stored = container.Stored
	FTL    = container.FTL
)

// modeValid reports whether m is one of the recognized wire mode codes.
func modeValid(m Mode) bool { return m <= FTL }

// modeImplemented reports whether this module's driver/blockcoder
// packages actually support m, as opposed to merely recognizing its code:
// "unrecognized" and "recognized but unsupported" are distinct cases.
func modeImplemented(m Mode) bool {
	switch m {
	case Base, Best, CF, Stored:
		return true
	default:
		return false
	}
}
