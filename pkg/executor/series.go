package executor

import "math"

const (
	taylorTerms    = 20
	chebyshevTerms = 16
)

// chebyshevSin holds the Chebyshev coefficients of sin(pi*u) on
// [-1, 1], with the constant term already halved.
var chebyshevSin = chebyshevCoefficients(
	func(u float64) float64 { return math.Sin(math.Pi * u) },
	chebyshevTerms,
)

// reduceAngle maps x into [-pi, pi].
func reduceAngle(x float64) float64 {
	return math.Remainder(x, 2*math.Pi)
}

// SinTaylor approximates sin(x) with a 20-term Maclaurin series
// after range reduction.
func SinTaylor(x float64) float64 {
	x = reduceAngle(x)
	term, sum := x, x
	for n := 1; n < taylorTerms; n++ {
		term *= -x * x / float64((2*n)*(2*n+1))
		sum += term
	}
	return sum
}

// CosTaylor approximates cos(x) with a 20-term Maclaurin series
// after range reduction.
func CosTaylor(x float64) float64 {
	x = reduceAngle(x)
	term, sum := 1.0, 1.0
	for n := 1; n < taylorTerms; n++ {
		term *= -x * x / float64((2*n-1)*(2*n))
		sum += term
	}
	return sum
}

// SinChebyshev approximates sin(x) by evaluating a 16-term
// Chebyshev expansion of sin(pi*u), u = x/pi, with the Clenshaw
// recurrence.
func SinChebyshev(x float64) float64 {
	return clenshaw(chebyshevSin, reduceAngle(x)/math.Pi)
}

// CosChebyshev approximates cos(x) as sin(x + pi/2).
func CosChebyshev(x float64) float64 {
	return SinChebyshev(x + math.Pi/2)
}

func clenshaw(c []float64, u float64) float64 {
	var b1, b2 float64
	for k := len(c) - 1; k >= 1; k-- {
		b1, b2 = 2*u*b1-b2+c[k], b1
	}
	return u*b1 - b2 + c[0]
}

// chebyshevCoefficients interpolates f at the n Chebyshev nodes of
// the first kind.
func chebyshevCoefficients(f func(float64) float64, n int) []float64 {
	samples := make([]float64, n)
	for j := range samples {
		samples[j] = f(math.Cos(math.Pi * (float64(j) + 0.5) / float64(n)))
	}

	c := make([]float64, n)
	for k := range c {
		var sum float64
		for j, s := range samples {
			sum += s * math.Cos(math.Pi*float64(k)*(float64(j)+0.5)/float64(n))
		}
		c[k] = 2 * sum / float64(n)
	}
	c[0] /= 2
	return c
}
