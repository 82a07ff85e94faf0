package render

import (
	"fmt"

	mandel "github.com/marben/mpi_mandel"
)

// PixelToComplex maps pixel (x, y) of the rc grid to the complex constant c,
// interpolating linearly from the viewport's lower bounds.
// It panics if the pixel lies outside the grid.
func PixelToComplex(x, y int, rc mandel.RenderContext) Complex {
	if !(0 <= x && x < rc.Width) || !(0 <= y && y < rc.Height) {
		panic(fmt.Sprintf("pixel (%d, %d) is out of the %dx%d grid", x, y, rc.Width, rc.Height))
	}
	return Complex{
		Real: float64(float64(x)/float64(rc.Width)*(rc.MaxX-rc.MinX)) + rc.MinX,
		Imag: float64(float64(y)/float64(rc.Height)*(rc.MaxY-rc.MinY)) + rc.MinY,
	}
}
