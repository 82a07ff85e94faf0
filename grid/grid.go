// Package grid holds the full-resolution pixel grid assembled by the root rank
// and serializes it to a bitmap.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	mandel "github.com/marben/mpi_mandel"
)

var (
	ErrOutOfBounds = errors.New("range out of grid bounds")
	ErrOverlap     = errors.New("range overlaps already claimed pixels")
	ErrIncomplete  = errors.New("grid is not fully populated")
	ErrEmptyBitmap = errors.New("bitmap has no pixels")
)

// Grid is a width x height array of colors stored as one flat buffer indexed by y*width+x.
// Every linear index may be claimed exactly once.
type Grid struct {
	width, height int
	pix           []mandel.Color

	m       sync.Mutex
	claimed []span // sorted by start, never overlapping
	filled  int
}

type span struct{ start, end int }

func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid dimensions must be positive, got %dx%d", width, height))
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]mandel.Color, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Claim reserves the linear range [start, start+count) and returns its backing slice,
// so the caller can compute straight into the grid.
func (g *Grid) Claim(start, count int) ([]mandel.Color, error) {
	end := start + count
	if start < 0 || count < 0 || end > len(g.pix) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d pixels", ErrOutOfBounds, start, end, len(g.pix))
	}

	g.m.Lock()
	defer g.m.Unlock()

	if count > 0 {
		// first span ending after start
		i := sort.Search(len(g.claimed), func(i int) bool { return g.claimed[i].end > start })
		if i < len(g.claimed) && g.claimed[i].start < end {
			c := g.claimed[i]
			return nil, fmt.Errorf("%w: [%d, %d) meets [%d, %d)", ErrOverlap, start, end, c.start, c.end)
		}
		g.claimed = append(g.claimed, span{})
		copy(g.claimed[i+1:], g.claimed[i:])
		g.claimed[i] = span{start, end}
		g.filled += count
	}

	return g.pix[start:end:end], nil
}

// Place copies a received block into the grid at its start offset.
func (g *Grid) Place(b mandel.Block) error {
	dst, err := g.Claim(b.Start, b.Count())
	if err != nil {
		return fmt.Errorf("place block of rank %d: %w", b.Rank, err)
	}
	copy(dst, b.Pixels)
	return nil
}

func (g *Grid) At(x, y int) mandel.Color {
	return g.pix[y*g.width+x]
}

// Complete reports whether every pixel has been claimed
func (g *Grid) Complete() bool {
	g.m.Lock()
	defer g.m.Unlock()
	return g.filled == len(g.pix)
}

// Progress returns the claimed fraction of the grid
func (g *Grid) Progress() float32 {
	g.m.Lock()
	defer g.m.Unlock()
	return float32(g.filled) / float32(len(g.pix))
}

// Image renders the grid onto a black opaque background.
// Only diverging pixels are written, black ones are left as background.
func (g *Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for i, c := range g.pix {
		if !c.IsDiverging() {
			continue
		}
		img.SetRGBA(i%g.width, i/g.width, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return img
}
