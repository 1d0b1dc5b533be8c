package interpolation

import (
	"math"
)

// Fourier evaluates the even Fourier series sum_k a[k]*cos(k*phi) given cos(phi),
// using the Chebyshev recurrence for cos(k*phi).
func Fourier(a []float64, m int, cosPhi float64) float64 {
	value := 0.0
	cosKMinusOnePhi := cosPhi
	cosKPhi := 1.0
	for k := 0; k < m; k++ {
		value += a[k] * cosKPhi
		cosKPlusOnePhi := 2*cosPhi*cosKPhi - cosKMinusOnePhi
		cosKMinusOnePhi = cosKPhi
		cosKPhi = cosKPlusOnePhi
	}
	return value
}

// SampleFourier importance-samples phi in [0, 2pi) proportionally to the series
// with coefficients ak[0:m]. recip holds 1/k for k >= 1. It returns the series
// value at the sampled angle, the pdf and phi.
func SampleFourier(ak, recip []float64, m int, u float64) (value, pdf, phi float64) {
	// Sample the symmetric half and mirror
	flip := u >= 0.5
	if flip {
		u = 1 - 2*(u-.5)
	} else {
		u *= 2
	}

	a, b := 0.0, math.Pi
	phi = 0.5 * math.Pi
	var F, f float64
	for {
		cosPhi := math.Cos(phi)
		sinPhi := math.Sqrt(math.Max(0, 1-cosPhi*cosPhi))
		cosPhiPrev, cosPhiCur := cosPhi, 1.0
		sinPhiPrev, sinPhiCur := -sinPhi, 0.0

		F = ak[0] * phi
		f = ak[0]
		for k := 1; k < m; k++ {
			sinPhiNext := 2*cosPhi*sinPhiCur - sinPhiPrev
			cosPhiNext := 2*cosPhi*cosPhiCur - cosPhiPrev
			sinPhiPrev, sinPhiCur = sinPhiCur, sinPhiNext
			cosPhiPrev, cosPhiCur = cosPhiCur, cosPhiNext

			F += ak[k] * recip[k] * sinPhiNext
			f += ak[k] * cosPhiNext
		}
		F -= u * ak[0] * math.Pi

		if F > 0 {
			b = phi
		} else {
			a = phi
		}
		if math.Abs(F) < 1e-6 || b-a < 1e-6 {
			break
		}

		phi -= F / f
		if !(phi > a && phi < b) {
			phi = 0.5 * (a + b)
		}
	}

	if flip {
		phi = 2*math.Pi - phi
	}
	return f, f / (2 * math.Pi * ak[0]), phi
}
