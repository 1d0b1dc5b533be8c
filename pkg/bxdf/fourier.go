package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/interpolation"
)

// FourierTable holds a measured or simulated BSDF as Fourier series in the
// azimuthal difference angle, tabulated over pairs of elevation cosines
type FourierTable struct {
	Eta       float64   // Relative index of refraction of the layer
	MMax      int       // Largest series order in the table
	NChannels int       // 1 (luminance) or 3 (luminance, red, blue)
	Mu        []float64 // Elevation cosines, sorted ascending
	M         []int     // Series order per (muO, muI) pair
	AOffset   []int     // Coefficient offset per (muO, muI) pair
	A         []float64 // All series coefficients
	A0        []float64 // Zeroth coefficient per pair, for elevation sampling
	CDF       []float64 // Running integral of A0 along muI
	Recip     []float64 // 1/k for k < MMax
}

// NMu returns the number of elevation samples
func (t *FourierTable) NMu() int {
	return len(t.Mu)
}

// Finalize derives A0 and Recip from the coefficient arrays. CDF is integrated
// from A0 when the table does not already carry one.
func (t *FourierTable) Finalize() {
	nMu := t.NMu()
	t.A0 = make([]float64, nMu*nMu)
	for i := 0; i < nMu*nMu; i++ {
		if t.M[i] > 0 {
			t.A0[i] = t.A[t.AOffset[i]]
		}
	}
	if len(t.CDF) != nMu*nMu {
		t.CDF = make([]float64, nMu*nMu)
		for i := 0; i < nMu; i++ {
			interpolation.IntegrateCatmullRom(t.Mu, t.A0[i*nMu:(i+1)*nMu], t.CDF[i*nMu:(i+1)*nMu])
		}
	}

	t.Recip = make([]float64, t.MMax)
	for k := 1; k < t.MMax; k++ {
		t.Recip[k] = 1 / float64(k)
	}
}

// NewUniformFourierTable returns a single-channel table whose series is the
// constant value for every elevation pair, with nMu elevations spread evenly
// over [-1, 1]. It scatters like a two-sided diffuse surface.
func NewUniformFourierTable(value float64, nMu int) *FourierTable {
	table := &FourierTable{Eta: 1, MMax: 1, NChannels: 1}
	table.Mu = make([]float64, nMu)
	for i := range table.Mu {
		table.Mu[i] = -1 + 2*float64(i)/float64(nMu-1)
	}
	table.M = make([]int, nMu*nMu)
	table.AOffset = make([]int, nMu*nMu)
	table.A = make([]float64, nMu*nMu)
	for i := range table.M {
		table.M[i] = 1
		table.AOffset[i] = i
		table.A[i] = value
	}
	table.Finalize()
	return table
}

// coefficients returns the series for the (offsetI, offsetO) elevation pair
func (t *FourierTable) coefficients(offsetI, offsetO int) (int, []float64) {
	offset := offsetO*t.NMu() + offsetI
	return t.M[offset], t.A[t.AOffset[offset]:]
}

// weights returns the spline weights for an elevation cosine
func (t *FourierTable) weights(cosTheta float64) (int, [4]float64, bool) {
	return interpolation.CatmullRomWeights(t.Mu, cosTheta)
}

// FourierBXDF evaluates a FourierTable. The table is shared and never modified.
type FourierBXDF struct {
	Table *FourierTable
	Mode  TransportMode
}

func NewFourierBXDF(table *FourierTable, mode TransportMode) *FourierBXDF {
	return &FourierBXDF{Table: table, Mode: mode}
}

func (f *FourierBXDF) Kind() Kind { return KindFourier }
func (f *FourierBXDF) Type() Type { return Reflection | Transmission | Glossy }

// blend accumulates the spline-weighted series for the two elevations into ak,
// laid out channel-major with stride MMax. It returns the largest order used.
func (f *FourierBXDF) blend(offsetI, offsetO int, weightsI, weightsO [4]float64, channels int) ([]float64, int) {
	t := f.Table
	ak := make([]float64, t.MMax*channels)
	mMax := 0
	for b := 0; b < 4; b++ {
		for a := 0; a < 4; a++ {
			weight := weightsI[a] * weightsO[b]
			if weight == 0 {
				continue
			}
			m, ap := t.coefficients(offsetI+a, offsetO+b)
			if m > mMax {
				mMax = m
			}
			for c := 0; c < channels; c++ {
				for k := 0; k < m; k++ {
					ak[c*t.MMax+k] += weight * ap[c*m+k]
				}
			}
		}
	}
	return ak, mMax
}

// scale returns the cosine and radiance-transport factor applied to the series
func (f *FourierBXDF) scale(muI, muO float64) float64 {
	if muI == 0 {
		return 0
	}
	s := 1 / math.Abs(muI)
	if f.Mode == Radiance && muI*muO > 0 {
		eta := f.Table.Eta
		if muI > 0 {
			eta = 1 / eta
		}
		s *= eta * eta
	}
	return s
}

// color converts the blended series at cosPhi to RGB
func (f *FourierBXDF) color(ak []float64, mMax int, cosPhi, scale float64) core.Vec3 {
	y := math.Max(0, interpolation.Fourier(ak, mMax, cosPhi))
	if f.Table.NChannels == 1 {
		return core.NewGray(y * scale)
	}
	stride := f.Table.MMax
	r := interpolation.Fourier(ak[stride:], mMax, cosPhi)
	b := interpolation.Fourier(ak[2*stride:], mMax, cosPhi)
	g := 1.39829*y - 0.100913*b - 0.297375*r
	return core.NewVec3(r*scale, g*scale, b*scale).Saturate()
}

func (f *FourierBXDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	// The table is indexed by the incident direction pointing into the surface
	muI := CosTheta(wi.Negate())
	muO := CosTheta(wo)
	cosPhi := CosDPhi(wi.Negate(), wo)

	offsetI, weightsI, okI := f.Table.weights(muI)
	offsetO, weightsO, okO := f.Table.weights(muO)
	if !okI || !okO {
		return core.Vec3{}
	}

	ak, mMax := f.blend(offsetI, offsetO, weightsI, weightsO, f.Table.NChannels)
	return f.color(ak, mMax, cosPhi, f.scale(muI, muO))
}

func (f *FourierBXDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	t := f.Table
	muO := CosTheta(wo)

	// Elevation from the zeroth-order marginal
	muI, _, pdfMu := interpolation.SampleCatmullRom2D(t.Mu, t.Mu, t.A0, t.CDF, muO, u.Y)

	offsetI, weightsI, okI := t.weights(muI)
	offsetO, weightsO, okO := t.weights(muO)
	if !okI || !okO {
		return Sample{}, false
	}

	ak, mMax := f.blend(offsetI, offsetO, weightsI, weightsO, t.NChannels)
	_, pdfPhi, phi := interpolation.SampleFourier(ak, t.Recip, mMax, u.X)
	pdf := math.Max(0, pdfPhi*pdfMu)
	if pdf == 0 {
		return Sample{}, false
	}

	// Rotate wo by phi about the normal and set the elevation
	sin2ThetaI := math.Max(0, 1-muI*muI)
	norm := math.Sqrt(sin2ThetaI / Sin2Theta(wo))
	if math.IsInf(norm, 0) || math.IsNaN(norm) {
		norm = 0
	}
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	wi := core.NewVec3(
		norm*(cosPhi*wo.X-sinPhi*wo.Y),
		norm*(sinPhi*wo.X+cosPhi*wo.Y),
		muI,
	).Negate().Normalize()

	value := f.color(ak, mMax, cosPhi, f.scale(muI, muO))

	st := Reflection
	if !SameHemisphere(wo, wi) {
		st = Transmission
	}
	return Sample{Wi: wi, Value: value, PDF: pdf, Type: st | Glossy}, true
}

func (f *FourierBXDF) PDF(wo, wi core.Vec3) float64 {
	t := f.Table
	muI := CosTheta(wi.Negate())
	muO := CosTheta(wo)
	cosPhi := CosDPhi(wi.Negate(), wo)

	offsetI, weightsI, okI := t.weights(muI)
	offsetO, weightsO, okO := t.weights(muO)
	if !okI || !okO {
		return 0
	}

	ak, mMax := f.blend(offsetI, offsetO, weightsI, weightsO, 1)

	// Normalize by the marginal mass over muI for this muO
	nMu := t.NMu()
	rho := 0.0
	for o := 0; o < 4; o++ {
		if weightsO[o] == 0 {
			continue
		}
		rho += weightsO[o] * t.CDF[(offsetO+o)*nMu+nMu-1] * (2 * math.Pi)
	}

	y := interpolation.Fourier(ak, mMax, cosPhi)
	if rho > 0 && y > 0 {
		return y / rho
	}
	return 0
}
