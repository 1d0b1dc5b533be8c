package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// LambertianBRDF represents perfectly diffuse reflection
type LambertianBRDF struct {
	R core.Vec3 // Reflectance
}

// NewLambertianBRDF creates a new Lambertian reflection lobe
func NewLambertianBRDF(r core.Vec3) *LambertianBRDF {
	return &LambertianBRDF{R: r}
}

func (l *LambertianBRDF) Kind() Kind { return KindLambertianBRDF }
func (l *LambertianBRDF) Type() Type { return Reflection | Diffuse }

// Evaluate returns R/π (the BRDF is constant)
func (l *LambertianBRDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return l.R.Multiply(1.0 / math.Pi)
}

// Sample draws a cosine-weighted direction in the hemisphere of wo
func (l *LambertianBRDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(l, wo, u)
}

// PDF is cos(θ)/π on the side of wo
func (l *LambertianBRDF) PDF(wo, wi core.Vec3) float64 {
	return cosinePDF(wo, wi)
}

// LambertianBTDF represents perfectly diffuse transmission
type LambertianBTDF struct {
	T core.Vec3 // Transmittance
}

// NewLambertianBTDF creates a new Lambertian transmission lobe
func NewLambertianBTDF(t core.Vec3) *LambertianBTDF {
	return &LambertianBTDF{T: t}
}

func (l *LambertianBTDF) Kind() Kind { return KindLambertianBTDF }
func (l *LambertianBTDF) Type() Type { return Transmission | Diffuse }

func (l *LambertianBTDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return l.T.Multiply(1.0 / math.Pi)
}

// Sample draws a cosine-weighted direction in the hemisphere opposite wo
func (l *LambertianBTDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	wi := core.SampleCosineHemisphereLocal(u)
	if wo.Z > 0 {
		wi.Z = -wi.Z
	}
	pdf := l.PDF(wo, wi)
	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{Wi: wi, Value: l.Evaluate(wo, wi), PDF: pdf, Type: l.Type()}, true
}

func (l *LambertianBTDF) PDF(wo, wi core.Vec3) float64 {
	if SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// OrenNayarBRDF is a rough diffuse reflection lobe. Sigma is the standard
// deviation of the microfacet slope angle in degrees.
type OrenNayarBRDF struct {
	R    core.Vec3
	A, B float64
}

// NewOrenNayarBRDF creates an Oren-Nayar lobe; sigma is clamped to [0, 90] degrees
func NewOrenNayarBRDF(r core.Vec3, sigmaDegrees float64) *OrenNayarBRDF {
	sigma := core.Radians(core.Clamp(sigmaDegrees, 0, 90))
	sigma2 := sigma * sigma
	return &OrenNayarBRDF{
		R: r,
		A: 1 - (sigma2 / (2 * (sigma2 + 0.33))),
		B: 0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (o *OrenNayarBRDF) Kind() Kind { return KindOrenNayarBRDF }
func (o *OrenNayarBRDF) Type() Type { return Reflection | Diffuse }

func (o *OrenNayarBRDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	sinThetaI := SinTheta(wi)
	sinThetaO := SinTheta(wo)

	// cos(φi - φo) term
	maxCos := 0.0
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		sinPhiI, cosPhiI := SinPhi(wi), CosPhi(wi)
		sinPhiO, cosPhiO := SinPhi(wo), CosPhi(wo)
		dCos := cosPhiI*cosPhiO + sinPhiI*sinPhiO
		maxCos = math.Max(0, dCos)
	}

	var sinAlpha, tanBeta float64
	if AbsCosTheta(wi) > AbsCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / AbsCosTheta(wi)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / AbsCosTheta(wo)
	}
	return o.R.Multiply((o.A + o.B*maxCos*sinAlpha*tanBeta) / math.Pi)
}

func (o *OrenNayarBRDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(o, wo, u)
}

func (o *OrenNayarBRDF) PDF(wo, wi core.Vec3) float64 {
	return cosinePDF(wo, wi)
}
