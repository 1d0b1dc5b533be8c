// Package bxdf implements the elementary scattering lobes, the Fresnel terms and
// microfacet distribution they are built from, and the BSDF that aggregates them
// at a shading point.
//
// All lobe methods take directions in the local shading frame, where the surface
// normal is +Z and both wo and wi point away from the surface.
package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// TransportMode tells non-symmetric lobes whether radiance (camera paths) or
// importance (light paths) is being transported
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

func (m TransportMode) String() string {
	if m == Importance {
		return "importance"
	}
	return "radiance"
}

// Type is a bit set classifying a lobe by hemisphere and distribution shape
type Type int

const (
	Reflection Type = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular

	All = Reflection | Transmission | Diffuse | Glossy | Specular
)

// Has reports whether every bit in flags is set
func (t Type) Has(flags Type) bool {
	return t&flags == flags
}

// MatchesFlags reports whether t is fully contained in flags
func (t Type) MatchesFlags(flags Type) bool {
	return t&flags == t
}

// IsDelta reports whether the lobe is a delta distribution
func (t Type) IsDelta() bool {
	return t&Specular != 0
}

// Kind identifies the lobe variant
type Kind int

const (
	KindLambertianBRDF Kind = iota
	KindLambertianBTDF
	KindOrenNayarBRDF
	KindSpecularBRDF
	KindSpecularBTDF
	KindFresnelSpecular
	KindTorranceSparrowBRDF
	KindTorranceSparrowBTDF
	KindDisneyDiffuse
	KindDisneyRetro
	KindDisneyFakeSS
	KindDisneySheen
	KindDisneyClearCoat
	KindHair
	KindFourier
)

func (k Kind) String() string {
	switch k {
	case KindLambertianBRDF:
		return "LambertianBRDF"
	case KindLambertianBTDF:
		return "LambertianBTDF"
	case KindOrenNayarBRDF:
		return "OrenNayarBRDF"
	case KindSpecularBRDF:
		return "SpecularBRDF"
	case KindSpecularBTDF:
		return "SpecularBTDF"
	case KindFresnelSpecular:
		return "FresnelSpecular"
	case KindTorranceSparrowBRDF:
		return "TorranceSparrowBRDF"
	case KindTorranceSparrowBTDF:
		return "TorranceSparrowBTDF"
	case KindDisneyDiffuse:
		return "DisneyDiffuse"
	case KindDisneyRetro:
		return "DisneyRetro"
	case KindDisneyFakeSS:
		return "DisneyFakeSS"
	case KindDisneySheen:
		return "DisneySheen"
	case KindDisneyClearCoat:
		return "DisneyClearCoat"
	case KindHair:
		return "Hair"
	case KindFourier:
		return "Fourier"
	}
	return "invalid"
}

// Sample is the result of importance-sampling a lobe
type Sample struct {
	Wi    core.Vec3 // Sampled incident direction (local frame)
	Value core.Vec3 // Lobe value for (wo, Wi)
	PDF   float64   // Solid-angle density; for delta lobes the discrete probability
	Type  Type      // Type of the lobe that produced the sample
}

// BXDF is a single scattering lobe
type BXDF interface {
	Kind() Kind
	Type() Type

	// Evaluate returns the lobe value for the direction pair. Delta lobes return black.
	Evaluate(wo, wi core.Vec3) core.Vec3

	// Sample draws an incident direction for wo from the 2D sample u. It reports
	// false when no direction could be generated.
	Sample(wo core.Vec3, u core.Vec2) (Sample, bool)

	// PDF returns the density Sample would produce wi with. Delta lobes return 0.
	PDF(wo, wi core.Vec3) float64
}

// Local-frame trigonometry

func CosTheta(w core.Vec3) float64    { return w.Z }
func Cos2Theta(w core.Vec3) float64   { return w.Z * w.Z }
func AbsCosTheta(w core.Vec3) float64 { return math.Abs(w.Z) }
func Sin2Theta(w core.Vec3) float64   { return math.Max(0, 1-Cos2Theta(w)) }
func SinTheta(w core.Vec3) float64    { return math.Sqrt(Sin2Theta(w)) }
func TanTheta(w core.Vec3) float64    { return SinTheta(w) / CosTheta(w) }
func Tan2Theta(w core.Vec3) float64   { return Sin2Theta(w) / Cos2Theta(w) }

func CosPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return core.Clamp(w.X/sinTheta, -1, 1)
}

func SinPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return core.Clamp(w.Y/sinTheta, -1, 1)
}

func Cos2Phi(w core.Vec3) float64 { return CosPhi(w) * CosPhi(w) }
func Sin2Phi(w core.Vec3) float64 { return SinPhi(w) * SinPhi(w) }

// CosDPhi returns the cosine of the azimuthal angle between wa and wb
func CosDPhi(wa, wb core.Vec3) float64 {
	waxy := wa.X*wa.X + wa.Y*wa.Y
	wbxy := wb.X*wb.X + wb.Y*wb.Y
	if waxy == 0 || wbxy == 0 {
		return 1
	}
	return core.Clamp((wa.X*wb.X+wa.Y*wb.Y)/math.Sqrt(waxy*wbxy), -1, 1)
}

// SameHemisphere reports whether both directions are on the same side of the surface
func SameHemisphere(w, wp core.Vec3) bool {
	return w.Z*wp.Z > 0
}

// cosineSample draws a cosine-weighted direction on the side of wo
func cosineSample(wo core.Vec3, u core.Vec2) core.Vec3 {
	wi := core.SampleCosineHemisphereLocal(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return wi
}

// cosinePDF is the density of cosineSample
func cosinePDF(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}

// sampleCosineLobe implements Sample for lobes that rely on cosine-weighted sampling
func sampleCosineLobe(b BXDF, wo core.Vec3, u core.Vec2) (Sample, bool) {
	wi := cosineSample(wo, u)
	pdf := b.PDF(wo, wi)
	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{Wi: wi, Value: b.Evaluate(wo, wi), PDF: pdf, Type: b.Type()}, true
}

// halfVector returns the normalized half vector of wo and wi, or false if they cancel
func halfVector(wo, wi core.Vec3) (core.Vec3, bool) {
	wh := wo.Add(wi)
	if wh.IsZero() {
		return core.Vec3{}, false
	}
	return wh.Normalize(), true
}
