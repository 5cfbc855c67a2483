// Package qb3 provides a pure Go encoder and decoder for the QB3 lossless
// raster codec.
//
// QB3 compresses integer raster data — imagery, elevation models,
// multi-band scientific grids — by coding fixed 4x4 pixel blocks with an
// adaptive bit-width (a "rung") that tracks the data's local dynamic
// range, after an optional inter-band decorrelation (core-band
// differencing) and a per-band running delta over a fixed Z-order scan.
// Blocks whose nonzero values share a common factor of 2 or more are coded
// against that factor instead; the encoder does not compare the size of
// that coding with the regular one. The format and its encoding rules
// are lossless: what SetQuanta doesn't discard, Encode/Decode round-trips
// exactly.
//
// This package implements the format without any CGo dependencies.
//
// Basic usage for encoding:
//
//	enc, err := qb3.NewEncoder(width, height, bands, qb3.U8)
//	dst := make([]byte, enc.MaxEncodedSize())
//	n, err := enc.Encode(src, dst)
//
// Basic usage for decoding:
//
//	dec, err := qb3.ReadStart(buf)
//	if err := dec.ReadInfo(); err != nil { ... }
//	dst := make([]int64, dec.SampleCount())
//	n, err := dec.ReadData(dst)
//
// Decode is a one-call convenience wrapper around ReadStart/ReadInfo/ReadData.
package qb3
