package mandel

import (
	"errors"
	"fmt"
	"image"
)

var ErrEmptySelection = errors.New("empty zoom selection")

// Zoom derives the viewport selected by the pixel rectangle p1-p2 on a width x height canvas
// currently showing v. Corners may be given in any order and are clamped to the canvas.
// Selecting the whole canvas (0,0)-(width,height) returns v unchanged.
func (v Viewport) Zoom(p1, p2 image.Point, width, height int) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("%w: canvas %dx%d", ErrInvalidViewport, width, height)
	}

	sel := image.Rectangle{Min: p1, Max: p2}.Canon().Intersect(image.Rect(0, 0, width, height))
	if sel.Empty() {
		return Viewport{}, fmt.Errorf("%w: %v-%v on %dx%d canvas", ErrEmptySelection, p1, p2, width, height)
	}

	zoomed := Viewport{
		MinX: lerp(float64(sel.Min.X)/float64(width), v.MinX, v.MaxX),
		MaxX: lerp(float64(sel.Max.X)/float64(width), v.MinX, v.MaxX),
		MinY: lerp(float64(sel.Min.Y)/float64(height), v.MinY, v.MaxY),
		MaxY: lerp(float64(sel.Max.Y)/float64(height), v.MinY, v.MaxY),
	}
	if err := zoomed.Validate(); err != nil {
		// selection narrower than float64 resolution
		return Viewport{}, fmt.Errorf("zoom %v: %w", sel, err)
	}
	return zoomed, nil
}

// lerp is exact at both ends: a == 0 yields min, a == 1 yields max.
func lerp(a, min, max float64) float64 {
	return float64(min*(1-a)) + float64(max*a)
}
