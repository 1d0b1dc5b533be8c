package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// TorranceSparrowBRDF is glossy microfacet reflection
type TorranceSparrowBRDF struct {
	R            core.Vec3
	Distribution TrowbridgeReitz
	Fresnel      Fresnel
}

// NewTorranceSparrowBRDF creates a microfacet reflection lobe
func NewTorranceSparrowBRDF(r core.Vec3, distribution TrowbridgeReitz, fresnel Fresnel) *TorranceSparrowBRDF {
	return &TorranceSparrowBRDF{R: r, Distribution: distribution, Fresnel: fresnel}
}

func (t *TorranceSparrowBRDF) Kind() Kind { return KindTorranceSparrowBRDF }
func (t *TorranceSparrowBRDF) Type() Type { return Reflection | Glossy }

func (t *TorranceSparrowBRDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	cosThetaO := AbsCosTheta(wo)
	cosThetaI := AbsCosTheta(wi)
	if cosThetaI == 0 || cosThetaO == 0 {
		return core.Vec3{}
	}
	wh, ok := halfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}

	f := t.Fresnel.Evaluate(wi.Dot(core.FaceForward(wh, localNormal)))
	scale := t.Distribution.D(wh) * t.Distribution.G(wo, wi) / (4 * cosThetaI * cosThetaO)
	return t.R.MultiplyVec(f).Multiply(scale)
}

func (t *TorranceSparrowBRDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}
	wh := t.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return Sample{}, false
	}
	wi := core.Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return Sample{}, false
	}

	pdf := t.Distribution.PDF(wo, wh) / (4 * wo.Dot(wh))
	if pdf == 0 || math.IsNaN(pdf) {
		return Sample{}, false
	}
	return Sample{Wi: wi, Value: t.Evaluate(wo, wi), PDF: pdf, Type: t.Type()}, true
}

func (t *TorranceSparrowBRDF) PDF(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh, ok := halfVector(wo, wi)
	if !ok {
		return 0
	}
	return t.Distribution.PDF(wo, wh) / (4 * wo.Dot(wh))
}

// TorranceSparrowBTDF is glossy microfacet transmission between etaA (above) and etaB (below)
type TorranceSparrowBTDF struct {
	T            core.Vec3
	Distribution TrowbridgeReitz
	EtaA, EtaB   float64
	Mode         TransportMode
	fresnel      DielectricFresnel
}

// NewTorranceSparrowBTDF creates a microfacet transmission lobe
func NewTorranceSparrowBTDF(t core.Vec3, distribution TrowbridgeReitz, etaA, etaB float64, mode TransportMode) *TorranceSparrowBTDF {
	return &TorranceSparrowBTDF{
		T:            t,
		Distribution: distribution,
		EtaA:         etaA,
		EtaB:         etaB,
		Mode:         mode,
		fresnel:      NewDielectricFresnel(etaA, etaB),
	}
}

func (t *TorranceSparrowBTDF) Kind() Kind { return KindTorranceSparrowBTDF }
func (t *TorranceSparrowBTDF) Type() Type { return Transmission | Glossy }

// relativeEta returns etaT/etaI for a transmission leaving along wo
func (t *TorranceSparrowBTDF) relativeEta(wo core.Vec3) float64 {
	if CosTheta(wo) > 0 {
		return t.EtaB / t.EtaA
	}
	return t.EtaA / t.EtaB
}

// transmissionHalfVector returns the generalized half vector, or false when
// wo and wi do not form a valid refraction pair
func (t *TorranceSparrowBTDF) transmissionHalfVector(wo, wi core.Vec3) (core.Vec3, float64, bool) {
	eta := t.relativeEta(wo)
	wh := wo.Add(wi.Multiply(eta))
	if wh.IsZero() {
		return core.Vec3{}, 0, false
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	// Microfacet normal must separate the two directions
	if wo.Dot(wh)*wi.Dot(wh) > 0 {
		return core.Vec3{}, 0, false
	}
	return wh, eta, true
}

func (t *TorranceSparrowBTDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	cosThetaO := CosTheta(wo)
	cosThetaI := CosTheta(wi)
	if cosThetaI == 0 || cosThetaO == 0 {
		return core.Vec3{}
	}
	wh, eta, ok := t.transmissionHalfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}

	f := t.fresnel.Evaluate(wo.Dot(wh))
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	factor := 1.0
	if t.Mode == Radiance {
		factor = 1 / eta
	}

	scale := math.Abs(t.Distribution.D(wh) * t.Distribution.G(wo, wi) * eta * eta *
		wi.AbsDot(wh) * wo.AbsDot(wh) * factor * factor /
		(cosThetaI * cosThetaO * sqrtDenom * sqrtDenom))
	return core.White.Subtract(f).MultiplyVec(t.T).Multiply(scale)
}

func (t *TorranceSparrowBTDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}
	wh := t.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return Sample{}, false
	}

	eta := t.EtaB / t.EtaA
	if CosTheta(wo) > 0 {
		eta = t.EtaA / t.EtaB
	}
	wi, ok := core.Refract(wo, wh, eta)
	if !ok {
		return Sample{}, false
	}

	pdf := t.PDF(wo, wi)
	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{Wi: wi, Value: t.Evaluate(wo, wi), PDF: pdf, Type: t.Type()}, true
}

func (t *TorranceSparrowBTDF) PDF(wo, wi core.Vec3) float64 {
	if SameHemisphere(wo, wi) {
		return 0
	}
	wh, eta, ok := t.transmissionHalfVector(wo, wi)
	if !ok {
		return 0
	}

	// Change of variables from half vector to incident direction
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	dwhDwi := math.Abs((eta * eta * wi.Dot(wh)) / (sqrtDenom * sqrtDenom))
	return t.Distribution.PDF(wo, wh) * dwhDwi
}
