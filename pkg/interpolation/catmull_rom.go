// Package interpolation implements the spline and Fourier-series helpers shared by
// the tabulated scattering models: Catmull-Rom weights, sampling, integration and
// inversion over irregular node sets.
package interpolation

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// FindInterval returns the index i in [0, size-2] such that pred(i) is true and
// pred(i+1) is false, assuming pred is monotonically true-then-false.
func FindInterval(size int, pred func(int) bool) int {
	first, length := 0, size
	for length > 0 {
		half := length >> 1
		middle := first + half
		if pred(middle) {
			first = middle + 1
			length -= half + 1
		} else {
			length = half
		}
	}
	return int(core.Clamp(float64(first-1), 0, float64(size-2)))
}

// CatmullRomWeights computes the four spline weights for evaluating a function
// tabulated at nodes at position x. offset is the index of the node that the
// first weight applies to (it may be -1). It reports false when x lies outside
// the node range.
func CatmullRomWeights(nodes []float64, x float64) (offset int, weights [4]float64, ok bool) {
	size := len(nodes)
	if size < 2 || !(x >= nodes[0] && x <= nodes[size-1]) {
		return 0, weights, false
	}

	idx := FindInterval(size, func(i int) bool { return nodes[i] <= x })
	offset = idx - 1
	x0, x1 := nodes[idx], nodes[idx+1]

	t := (x - x0) / (x1 - x0)
	t2 := t * t
	t3 := t2 * t

	weights[1] = 2*t3 - 3*t2 + 1
	weights[2] = -2*t3 + 3*t2

	if idx > 0 {
		w0 := (t3 - 2*t2 + t) * (x1 - x0) / (x1 - nodes[idx-1])
		weights[0] = -w0
		weights[2] += w0
	} else {
		w0 := t3 - 2*t2 + t
		weights[0] = 0
		weights[1] -= w0
		weights[2] += w0
	}

	if idx+2 < size {
		w3 := (t3 - t2) * (x1 - x0) / (nodes[idx+2] - x0)
		weights[1] -= w3
		weights[3] = w3
	} else {
		w3 := t3 - t2
		weights[1] -= w3
		weights[2] += w3
		weights[3] = 0
	}
	return offset, weights, true
}

// endpointDerivatives estimates the spline tangents at both ends of interval
// [x[i], x[i+1]] scaled to the interval width.
func endpointDerivatives(x []float64, value func(int) float64, i int) (d0, d1 float64) {
	n := len(x)
	x0, x1 := x[i], x[i+1]
	f0, f1 := value(i), value(i+1)
	width := x1 - x0

	if i > 0 {
		d0 = width * (f1 - value(i-1)) / (x1 - x[i-1])
	} else {
		d0 = f1 - f0
	}
	if i+2 < n {
		d1 = width * (value(i+2) - f0) / (x[i+2] - x0)
	} else {
		d1 = f1 - f0
	}
	return d0, d1
}

// SampleCatmullRom2D importance-samples the second dimension of a 2D function
// tabulated on nodes1 × nodes2, conditioned on alpha in the first dimension.
// values and cdf are row-major with len(nodes2) columns. It returns the sampled
// position, the interpolated function value there and its pdf; a zero pdf
// signals that alpha was out of range.
func SampleCatmullRom2D(nodes1, nodes2, values, cdf []float64, alpha, u float64) (x, fval, pdf float64) {
	size2 := len(nodes2)
	offset, weights, ok := CatmullRomWeights(nodes1, alpha)
	if !ok {
		return 0, 0, 0
	}

	interpolate := func(array []float64, idx int) float64 {
		value := 0.0
		for i := 0; i < 4; i++ {
			if weights[i] != 0 {
				value += array[(offset+i)*size2+idx] * weights[i]
			}
		}
		return value
	}

	maximum := interpolate(cdf, size2-1)
	if maximum <= 0 {
		return 0, 0, 0
	}
	u *= maximum
	idx := FindInterval(size2, func(i int) bool { return interpolate(cdf, i) <= u })

	f0, f1 := interpolate(values, idx), interpolate(values, idx+1)
	x0, x1 := nodes2[idx], nodes2[idx+1]
	width := x1 - x0
	d0, d1 := endpointDerivatives(nodes2, func(i int) float64 { return interpolate(values, i) }, idx)

	// Re-scale u for the spline segment
	u = (u - interpolate(cdf, idx)) / width

	// Invert the segment integral with a safeguarded Newton-bisection
	var t float64
	if f0 != f1 {
		t = (f0 - core.SafeSqrt(f0*f0+2*u*(f1-f0))) / (f0 - f1)
	} else {
		t = u / f0
	}
	a, b := 0.0, 1.0
	var fhat float64
	for {
		if !(t >= a && t <= b) {
			t = 0.5 * (a + b)
		}

		Fhat := t * (f0 + t*(.5*d0+t*((1.0/3.0)*(-2*d0-d1)+f1-f0+t*(.25*(d0+d1)+.5*(f0-f1)))))
		fhat = f0 + t*(d0+t*(-2*d0-d1+3*(f1-f0)+t*(d0+d1+2*(f0-f1))))

		if math.Abs(Fhat-u) < 1e-6 || b-a < 1e-6 {
			break
		}
		if Fhat-u < 0 {
			a = t
		} else {
			b = t
		}
		t -= (Fhat - u) / fhat
	}

	return x0 + width*t, fhat, fhat / maximum
}

// IntegrateCatmullRom integrates the spline through (x, values) and fills cdf
// with the running integral (cdf[0] = 0). It returns the total.
func IntegrateCatmullRom(x, values, cdf []float64) float64 {
	n := len(x)
	sum := 0.0
	cdf[0] = 0
	for i := 0; i < n-1; i++ {
		f0, f1 := values[i], values[i+1]
		width := x[i+1] - x[i]
		d0, d1 := endpointDerivatives(x, func(j int) float64 { return values[j] }, i)
		sum += ((d0-d1)*(1.0/12.0) + (f0+f1)*.5) * width
		cdf[i+1] = sum
	}
	return sum
}

// InvertCatmullRom finds x such that the spline through (x, values) equals u.
// values must be monotonically increasing.
func InvertCatmullRom(x, values []float64, u float64) float64 {
	n := len(x)
	if !(u > values[0]) {
		return x[0]
	}
	if !(u < values[n-1]) {
		return x[n-1]
	}

	i := FindInterval(n, func(j int) bool { return values[j] <= u })
	x0, x1 := x[i], x[i+1]
	f0, f1 := values[i], values[i+1]
	width := x1 - x0
	d0, d1 := endpointDerivatives(x, func(j int) float64 { return values[j] }, i)

	a, b, t := 0.0, 1.0, 0.5
	for {
		if !(t > a && t < b) {
			t = 0.5 * (a + b)
		}

		t2 := t * t
		t3 := t2 * t

		Fhat := (2*t3-3*t2+1)*f0 + (-2*t3+3*t2)*f1 + (t3-2*t2+t)*d0 + (t3-t2)*d1
		fhat := (6*t2-6*t)*f0 + (-6*t2+6*t)*f1 + (3*t2-4*t+1)*d0 + (3*t2-2*t)*d1

		if math.Abs(Fhat-u) < 1e-6 || b-a < 1e-6 {
			break
		}
		if Fhat-u < 0 {
			a = t
		} else {
			b = t
		}
		t -= (Fhat - u) / fhat
	}
	return x0 + t*width
}
