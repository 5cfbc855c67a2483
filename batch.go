package qb3

import (
	"golang.org/x/sync/errgroup"
)

// Image bundles one raster and its geometry for the batch helpers below.
type Image struct {
	Width, Height int
	Bands         int
	Type          DataType
	Data          []int64
}

// EncodeAll encodes a batch of independent images concurrently: each image
// gets its own Encoder and running predictor/rung state, scoped to that
// image alone, so unlike a single Encode call, batches parallelize across
// goroutines with golang.org/x/sync/errgroup. The result slice preserves
// input order; a failure does not stop the other images, and the first
// error is returned.
func EncodeAll(images []Image, mode Mode) ([][]byte, error) {
	out := make([][]byte, len(images))
	var g errgroup.Group
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			enc, err := NewEncoder(img.Width, img.Height, img.Bands, img.Type)
			if err != nil {
				return err
			}
			enc.SetMode(mode)
			dst := make([]byte, enc.MaxEncodedSize())
			n, err := enc.Encode(img.Data, dst)
			if err != nil {
				return err
			}
			out[i] = dst[:n]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeAll decodes a batch of independently-framed QB3 streams
// concurrently, mirroring EncodeAll. The result slice preserves input
// order; a failure does not stop the other streams, and the first error
// is returned.
func DecodeAll(streams [][]byte) ([]Image, error) {
	out := make([]Image, len(streams))
	var g errgroup.Group
	for i, buf := range streams {
		i, buf := i, buf
		g.Go(func() error {
			data, hdr, err := Decode(buf)
			if err != nil {
				return err
			}
			out[i] = Image{Width: hdr.Width, Height: hdr.Height, Bands: hdr.Bands, Type: hdr.Type, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
