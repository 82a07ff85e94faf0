package render

import (
	"math"

	mandel "github.com/marben/mpi_mandel"
)

const (
	MaxIteration  = 1000
	BailoutRadius = 2.0
)

// Escape iterates z ← z² + c from zero until |z| exceeds BailoutRadius or MaxIteration is reached.
// It returns the number of iterations performed and the last z.
func Escape(c Complex) (iteration int, z Complex) {
	for iteration < MaxIteration && z.Modulus() <= BailoutRadius {
		z = z.Next(c)
		iteration++
	}
	return iteration, z
}

// Shade returns the gray color of c: black when the orbit stays bounded,
// otherwise a smoothed gradient of the escape iteration.
func Shade(c Complex) mandel.Color {
	iteration, z := Escape(c)
	if iteration == MaxIteration {
		return mandel.Color{}
	}
	return mandel.Gray(smoothGray(iteration, z.Modulus()))
}

// smoothGray maps a diverging orbit to [0, 255].
// nu is clamped to 0 when it is not a non-negative number, which cannot happen while the
// bailout radius is above 1.
func smoothGray(iteration int, modulus float64) uint8 {
	nu := math.Log(math.Log(modulus)/math.Ln2) / math.Ln2
	if math.IsNaN(nu) || math.IsInf(nu, 0) || nu < 0 {
		nu = 0
	}

	smoothed := float64(iteration) + 1 - math.Floor(nu)
	if smoothed < 0 {
		smoothed = 0
	}

	v := math.Round(255 * math.Sqrt(smoothed/MaxIteration))
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	}
	return uint8(v)
}
