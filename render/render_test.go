package render

import (
	"testing"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/partition"
)

func TestComplexNext(t *testing.T) {
	tests := []struct {
		z, c, want Complex
	}{
		{Complex{0, 0}, Complex{0.5, -0.25}, Complex{0.5, -0.25}},
		{Complex{1, 2}, Complex{0, 0}, Complex{-3, 4}},
		{Complex{-1.5, 0.5}, Complex{1, 1}, Complex{3, -0.5}},
	}
	for _, tt := range tests {
		if got := tt.z.Next(tt.c); got != tt.want {
			t.Errorf("%v.Next(%v) = %v, want %v", tt.z, tt.c, got, tt.want)
		}
	}
}

func TestComplexModulus(t *testing.T) {
	if m := (Complex{3, -4}).Modulus(); m != 5 {
		t.Errorf("|3-4i| = %g, want 5", m)
	}
	if m := (Complex{}).Modulus(); m != 0 {
		t.Errorf("|0| = %g, want 0", m)
	}
}

func TestEscapeOriginIsBounded(t *testing.T) {
	iteration, _ := Escape(Complex{0, 0})
	if iteration != MaxIteration {
		t.Errorf("Escape(0) = %d iterations, want %d", iteration, MaxIteration)
	}
	if c := Shade(Complex{0, 0}); c != (mandel.Color{}) {
		t.Errorf("Shade(0) = %v, want black", c)
	}
}

func TestEscapeFarPointDivergesImmediately(t *testing.T) {
	iteration, z := Escape(Complex{10, 0})
	if iteration != 1 {
		t.Errorf("Escape(10) = %d iterations, want 1", iteration)
	}
	if z != (Complex{10, 0}) {
		t.Errorf("Escape(10) stopped at z = %v, want 10", z)
	}

	// nu = log2(log2(10)) ≈ 1.73, smoothed = 1 + 1 - 1 = 1, round(255*sqrt(1/1000)) = 8
	got := Shade(Complex{10, 0})
	if got != mandel.Gray(8) {
		t.Errorf("Shade(10) = %v, want gray 8", got)
	}
	if !got.IsDiverging() {
		t.Error("Shade(10) is not diverging")
	}
}

func TestSmoothGrayClamps(t *testing.T) {
	tests := []struct {
		name      string
		iteration int
		modulus   float64
		want      uint8
	}{
		{"modulus below one", 3, 0.5, 16},  // nu clamped to 0: round(255*sqrt(4/1000))
		{"modulus exactly one", 3, 1, 16},  // log(0) = -Inf
		{"huge modulus", 1, 1e300, 0},      // smoothed below zero
		{"late escape", 999, 2.5, 255},     // smoothed = 999 + 1 - 0
		{"overflowing smoothed", 1200, 2.5, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := smoothGray(tt.iteration, tt.modulus); got != tt.want {
				t.Errorf("smoothGray(%d, %g) = %d, want %d", tt.iteration, tt.modulus, got, tt.want)
			}
		})
	}
}

func TestPixelToComplex(t *testing.T) {
	rc := mandel.RenderContext{
		Viewport: mandel.Viewport{MinX: -2, MaxX: 2, MinY: -1, MaxY: 1},
		Width:    8,
		Height:   4,
	}
	tests := []struct {
		x, y int
		want Complex
	}{
		{0, 0, Complex{-2, -1}},
		{4, 2, Complex{0, 0}},
		{7, 3, Complex{1.5, 0.5}},
		{1, 1, Complex{-1.5, -0.5}},
	}
	for _, tt := range tests {
		if got := PixelToComplex(tt.x, tt.y, rc); got != tt.want {
			t.Errorf("PixelToComplex(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPixelToComplexPanicsOutOfRange(t *testing.T) {
	rc := mandel.RenderContext{Viewport: mandel.Classic, Width: 8, Height: 4}
	for _, p := range [][2]int{{8, 0}, {0, 4}, {-1, 0}, {0, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("PixelToComplex(%d, %d) did not panic", p[0], p[1])
				}
			}()
			PixelToComplex(p[0], p[1], rc)
		}()
	}
}

func TestComputeBlockMatchesPerPixelShade(t *testing.T) {
	rc := mandel.RenderContext{Viewport: mandel.Classic, Width: 13, Height: 9}
	r := partition.Range{Rank: 2, Start: 40, Count: 31}

	b := ComputeBlock(rc, r)
	if b.Rank != 2 || b.Start != 40 || b.Count() != 31 {
		t.Fatalf("ComputeBlock header = rank %d start %d count %d", b.Rank, b.Start, b.Count())
	}
	for j, got := range b.Pixels {
		i := r.Start + j
		want := Shade(PixelToComplex(i%rc.Width, i/rc.Width, rc))
		if got != want {
			t.Errorf("pixel %d = %v, want %v", i, got, want)
		}
	}
}

// Pixels are sampled at their top-left corner, so row y mirrors row height-y
// when the viewport is symmetric about the real axis.
func TestConjugateSymmetry(t *testing.T) {
	rc := mandel.RenderContext{
		Viewport: mandel.Viewport{MinX: -2, MaxX: 1, MinY: -1.5, MaxY: 1.5},
		Width:    48,
		Height:   64,
	}
	all := ComputeBlock(rc, partition.Range{Count: rc.Pixels()})
	at := func(x, y int) mandel.Color { return all.Pixels[y*rc.Width+x] }

	for y := 1; y < rc.Height; y++ {
		for x := 0; x < rc.Width; x++ {
			c := PixelToComplex(x, y, rc)
			m := PixelToComplex(x, rc.Height-y, rc)
			if c.Real != m.Real || c.Imag != -m.Imag {
				t.Fatalf("pixels (%d, %d) and (%d, %d) map to %v and %v, not conjugates", x, y, x, rc.Height-y, c, m)
			}
			if at(x, y) != at(x, rc.Height-y) {
				t.Errorf("color at (%d, %d) = %v, mirror (%d, %d) = %v", x, y, at(x, y), x, rc.Height-y, at(x, rc.Height-y))
			}
		}
	}
}
