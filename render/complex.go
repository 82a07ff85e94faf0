package render

import "math"

// Complex is a minimal complex number with a fixed evaluation order.
type Complex struct {
	Real, Imag float64
}

func (z Complex) Modulus() float64 {
	return math.Sqrt(float64(z.Real*z.Real) + float64(z.Imag*z.Imag))
}

// Next returns z² + c.
// The explicit conversions round every product before it is added (no fused multiply-add).
func (z Complex) Next(c Complex) Complex {
	return Complex{
		Real: float64(z.Real*z.Real) - float64(z.Imag*z.Imag) + c.Real,
		Imag: float64(2*z.Real*z.Imag) + c.Imag,
	}
}
