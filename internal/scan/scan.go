// Package scan defines the fixed 16-entry Z-order traversal of a 4x4 QB3
// block, shared by the encoder and decoder.
package scan

// Side is the block's edge length; B2 is the number of samples per block.
const (
	Side = 4
	B2   = Side * Side
)

// X and Y give the column/row offset of scan position i within a 4x4
// block, in QB3's fixed Z-order:
//
//	(0,0) (1,0) (0,1) (1,1) (2,0) (3,0) (2,1) (3,1)
//	(0,2) (1,2) (0,3) (1,3) (2,2) (3,2) (2,3) (3,3)
var (
	X = [B2]int{0, 1, 0, 1, 2, 3, 2, 3, 0, 1, 0, 1, 2, 3, 2, 3}
	Y = [B2]int{0, 0, 1, 1, 0, 0, 1, 1, 2, 2, 3, 3, 2, 2, 3, 3}
)
