package blockcoder

import "github.com/qb3go/qb3/internal/bitio"

// UBits returns U, the number of bits of a rung-switch delta for sample
// width w: 3,4,5,6 for w = 8,16,32,64. Note that 2^U == w in every case, so
// "mod 2^U" and "mod w" coincide.
func UBits(w int) int {
	switch w {
	case 8:
		return 3
	case 16:
		return 4
	case 32:
		return 5
	case 64:
		return 6
	default:
		panic("blockcoder: unsupported sample width")
	}
}

// cswEntry is one (length, code) pair from a code-switch table: code's low
// `length` bits are the bits written, least-significant bit first.
type cswEntry struct {
	length int
	code   uint64
}

// csw3/csw4/csw5/csw6 code the rung-switch delta (newrung-oldrung) mod
// width as a variable-length, prefix-free bit string, indexed by delta:
// delta 0 (no rung change, the overwhelmingly common case) always codes as
// a single "0" bit, and every other delta gets a longer code, shortest
// for small changes in either direction (indices near both ends of the
// table) and longest near the middle of the range. Each entry is
// packed as in the original table: the high nibble is the bit length, the
// low 12 bits are the code value.
var (
	csw3 = unpackCSW([]uint16{0x1000, 0x3001, 0x4003, 0x5007, 0x501f, 0x500f, 0x400b, 0x3005})
	csw4 = unpackCSW([]uint16{
		0x1000, 0x4001, 0x4009, 0x5003, 0x5013, 0x6007, 0x6017, 0x6027,
		0x603f, 0x602f, 0x601f, 0x600f, 0x501b, 0x500b, 0x400d, 0x4005,
	})
	csw5 = unpackCSW([]uint16{
		0x1000, 0x5001, 0x5009, 0x5011, 0x5019, 0x6003, 0x6013, 0x6023,
		0x6033, 0x7007, 0x7017, 0x7027, 0x7037, 0x7047, 0x7057, 0x7067,
		0x707f, 0x706f, 0x705f, 0x704f, 0x703f, 0x702f, 0x701f, 0x700f,
		0x603b, 0x602b, 0x601b, 0x600b, 0x501d, 0x5015, 0x500d, 0x5005,
	})
	csw6 = unpackCSW([]uint16{
		0x1000, 0x6001, 0x6009, 0x6011, 0x6019, 0x6021, 0x6029, 0x6031,
		0x6039, 0x7003, 0x7013, 0x7023, 0x7033, 0x7043, 0x7053, 0x7063,
		0x7073, 0x8007, 0x8017, 0x8027, 0x8037, 0x8047, 0x8057, 0x8067,
		0x8077, 0x8087, 0x8097, 0x80a7, 0x80b7, 0x80c7, 0x80d7, 0x80e7,
		0x80ff, 0x80ef, 0x80df, 0x80cf, 0x80bf, 0x80af, 0x809f, 0x808f,
		0x807f, 0x806f, 0x805f, 0x804f, 0x803f, 0x802f, 0x801f, 0x800f,
		0x707b, 0x706b, 0x705b, 0x704b, 0x703b, 0x702b, 0x701b, 0x700b,
		0x603d, 0x6035, 0x602d, 0x6025, 0x601d, 0x6015, 0x600d, 0x6005,
	})
)

func unpackCSW(raw []uint16) []cswEntry {
	out := make([]cswEntry, len(raw))
	for i, v := range raw {
		out[i] = cswEntry{length: int(v >> 12), code: uint64(v & 0x0fff)}
	}
	return out
}

func cswTable(width int) []cswEntry {
	switch width {
	case 8:
		return csw3
	case 16:
		return csw4
	case 32:
		return csw5
	case 64:
		return csw6
	default:
		panic("blockcoder: unsupported sample width")
	}
}

// dswEntry is one decode-table slot: the delta a codeword represents and
// how many bits it actually occupies.
type dswEntry struct {
	delta  uint64
	length int
}

// dsw3/dsw4/dsw5/dsw6 are the decode side of csw3..csw6, mechanically
// derived rather than hand-transcribed: since the csw tables are
// prefix-free, indexing a 2^maxLen-entry table by the next maxLen stream
// bits and filling every codeword's unused suffix bits with its own entry
// reconstructs the exact same mapping encodeSwitch used, with no
// separately maintained decode table to keep in sync.
var (
	dsw3 = invertCSW(csw3)
	dsw4 = invertCSW(csw4)
	dsw5 = invertCSW(csw5)
	dsw6 = invertCSW(csw6)
)

func invertCSW(table []cswEntry) []dswEntry {
	maxLen := 0
	for _, e := range table {
		if e.length > maxLen {
			maxLen = e.length
		}
	}
	out := make([]dswEntry, 1<<uint(maxLen))
	for delta, e := range table {
		fill := 1 << uint(maxLen-e.length)
		for pad := 0; pad < fill; pad++ {
			idx := e.code | uint64(pad)<<uint(e.length)
			out[idx] = dswEntry{delta: uint64(delta), length: e.length}
		}
	}
	return out
}

func dswTable(width int) []dswEntry {
	switch width {
	case 8:
		return dsw3
	case 16:
		return dsw4
	case 32:
		return dsw5
	case 64:
		return dsw6
	default:
		panic("blockcoder: unsupported sample width")
	}
}

// A block's switch field always opens with one bit telling CF-mode blocks
// apart from regular ones, followed (for a regular block) by the
// csw-coded rung-switch delta above. CF mode keeps its own reserved bit
// instead of stealing a csw codeword to signal itself, the way the
// original folds a CF marker into one particular switch-table entry:
// doing that here would mean special-casing whichever table index happens
// to collide with a genuine in-range delta, in exchange for dropping the
// leading 0 bit that every regular block carries here.
//
//	0 <csw delta>  -> regular block, rung-switch delta per table above
//	1              -> CF mode (trung/cf follow separately, cf.go)
type switchCode struct {
	cf    bool
	delta uint64
}

// encodeSwitch writes the rung-switch prefix: the single CF marker bit
// when cf is true (delta is then ignored), otherwise a 0 bit followed by
// the csw code for delta, including delta == 0.
func encodeSwitch(w *bitio.Writer, delta uint64, width int, cf bool) {
	if cf {
		w.WriteBits(1, 1)
		return
	}
	w.WriteBits(0, 1)
	e := cswTable(width)[delta]
	w.WriteBits(e.code, e.length)
}

// decodeSwitch reads a rung-switch prefix.
func decodeSwitch(rdr *bitio.Reader, width int) switchCode {
	if rdr.Get() == 1 {
		return switchCode{cf: true}
	}
	tbl := dswTable(width)
	mask := uint64(len(tbl) - 1)
	d := tbl[rdr.Peek()&mask]
	rdr.Advance(d.length)
	return switchCode{delta: d.delta}
}
