package mandel

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport is the rectangle of the complex plane being rendered
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Validate checks that the viewport is finite and has positive area.
func (v Viewport) Validate() error {
	for _, f := range [...]float64{v.MinX, v.MaxX, v.MinY, v.MaxY} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidViewport, v)
		}
	}
	if !(v.MinX < v.MaxX) {
		return fmt.Errorf("%w: minX %g is not below maxX %g", ErrInvalidViewport, v.MinX, v.MaxX)
	}
	if !(v.MinY < v.MaxY) {
		return fmt.Errorf("%w: minY %g is not below maxY %g", ErrInvalidViewport, v.MinY, v.MaxY)
	}
	return nil
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", v.MinX, v.MaxX, v.MinY, v.MaxY)
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Classic - the whole set
	Classic = Viewport{
		MinX: -2.0,
		MaxX: 1.0,
		MinY: -1.2,
		MaxY: 1.2,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Viewport{
		MinX: -0.8,
		MaxX: -0.7,
		MinY: 0.05,
		MaxY: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Viewport{
		MinX: -1.85,
		MaxX: -1.75,
		MinY: -0.10,
		MaxY: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Viewport{
		MinX: -0.7435,
		MaxX: -0.7420,
		MinY: 0.1310,
		MaxY: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Viewport{
		MinX: -0.7480,
		MaxX: -0.7450,
		MinY: 0.0950,
		MaxY: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Viewport{
		MinX: -0.7400,
		MaxX: -0.7350,
		MinY: 0.1800,
		MaxY: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Viewport{
		MinX: -1.7390,
		MaxX: -1.7375,
		MinY: -0.0235,
		MaxY: -0.0220,
	}
)

// Regions maps the landmark names accepted on the command line to their viewports
var Regions = map[string]Viewport{
	"classic":    Classic,
	"seahorse":   SeahorseValley,
	"elephant":   ElephantValley,
	"spiral":     SpiralMinibrot,
	"triple":     TripleSpiral,
	"dragon":     ValleyOfTheDragon,
	"minispiral": MinibrotInMiniSpiral,
}

// RegionNames returns the keys of Regions in sorted order
func RegionNames() []string {
	return slices.Sorted(maps.Keys(Regions))
}

// RenderContext carries everything one render pass reads: the viewport and the grid size.
// It is established once per pass and never mutated while the pass runs.
type RenderContext struct {
	Viewport
	Width, Height int
}

func (rc RenderContext) Validate() error {
	if rc.Width <= 0 || rc.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must have positive dimensions", ErrInvalidViewport, rc.Width, rc.Height)
	}
	return rc.Viewport.Validate()
}

// Pixels returns the number of pixels in the grid
func (rc RenderContext) Pixels() int {
	return rc.Width * rc.Height
}

// Color is a 24-bit pixel color. The engine only produces grays (R == G == B).
type Color struct {
	R, G, B uint8
}

// Gray returns the color with all three channels set to v
func Gray(v uint8) Color {
	return Color{R: v, G: v, B: v}
}

// IsDiverging reports whether the pixel escaped, i.e. is not black.
func (c Color) IsDiverging() bool {
	return c.R != 0 || c.G != 0 || c.B != 0
}

// Block holds the colors of the contiguous linear pixel range [Start, Start+len(Pixels))
// computed by one rank.
type Block struct {
	Rank   int
	Start  int
	Pixels []Color
}

func (b Block) Count() int {
	return len(b.Pixels)
}
