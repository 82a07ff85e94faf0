package render

import (
	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/partition"
)

// ComputeBlock renders the linear pixel range r and tags the result with r.Rank.
func ComputeBlock(rc mandel.RenderContext, r partition.Range) mandel.Block {
	pixels := make([]mandel.Color, r.Count)
	ComputeInto(rc, r.Start, pixels)
	return mandel.Block{
		Rank:   r.Rank,
		Start:  r.Start,
		Pixels: pixels,
	}
}

// ComputeInto renders len(dst) pixels starting at linear index start directly into dst.
func ComputeInto(rc mandel.RenderContext, start int, dst []mandel.Color) {
	for j := range dst {
		i := start + j
		c := PixelToComplex(i%rc.Width, i/rc.Width, rc)
		dst[j] = Shade(c)
	}
}
