package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// DisneyDiffuse is the principled diffuse lobe without retro-reflection
type DisneyDiffuse struct {
	R core.Vec3
}

func NewDisneyDiffuse(r core.Vec3) *DisneyDiffuse { return &DisneyDiffuse{R: r} }

func (d *DisneyDiffuse) Kind() Kind { return KindDisneyDiffuse }
func (d *DisneyDiffuse) Type() Type { return Reflection | Diffuse }

func (d *DisneyDiffuse) Evaluate(wo, wi core.Vec3) core.Vec3 {
	fo := SchlickWeight(AbsCosTheta(wo))
	fi := SchlickWeight(AbsCosTheta(wi))
	return d.R.Multiply((1 - fo/2) * (1 - fi/2) / math.Pi)
}

func (d *DisneyDiffuse) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(d, wo, u)
}

func (d *DisneyDiffuse) PDF(wo, wi core.Vec3) float64 { return cosinePDF(wo, wi) }

// DisneyFakeSS approximates subsurface scattering on thin surfaces with the
// Hanrahan-Krueger lobe shape
type DisneyFakeSS struct {
	R         core.Vec3
	Roughness float64
}

func NewDisneyFakeSS(r core.Vec3, roughness float64) *DisneyFakeSS {
	return &DisneyFakeSS{R: r, Roughness: roughness}
}

func (d *DisneyFakeSS) Kind() Kind { return KindDisneyFakeSS }
func (d *DisneyFakeSS) Type() Type { return Reflection | Diffuse }

func (d *DisneyFakeSS) Evaluate(wo, wi core.Vec3) core.Vec3 {
	wh, ok := halfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}
	cosThetaD := wi.Dot(wh)

	fss90 := cosThetaD * cosThetaD * d.Roughness
	fo := SchlickWeight(AbsCosTheta(wo))
	fi := SchlickWeight(AbsCosTheta(wi))
	fss := core.LerpFloat(fo, 1, fss90) * core.LerpFloat(fi, 1, fss90)
	ss := 1.25 * (fss*(1/(AbsCosTheta(wo)+AbsCosTheta(wi))-.5) + .5)
	return d.R.Multiply(ss / math.Pi)
}

func (d *DisneyFakeSS) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(d, wo, u)
}

func (d *DisneyFakeSS) PDF(wo, wi core.Vec3) float64 { return cosinePDF(wo, wi) }

// DisneyRetro is the grazing-angle retro-reflection lobe
type DisneyRetro struct {
	R         core.Vec3
	Roughness float64
}

func NewDisneyRetro(r core.Vec3, roughness float64) *DisneyRetro {
	return &DisneyRetro{R: r, Roughness: roughness}
}

func (d *DisneyRetro) Kind() Kind { return KindDisneyRetro }
func (d *DisneyRetro) Type() Type { return Reflection | Diffuse }

func (d *DisneyRetro) Evaluate(wo, wi core.Vec3) core.Vec3 {
	wh, ok := halfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}
	cosThetaD := wi.Dot(wh)

	fo := SchlickWeight(AbsCosTheta(wo))
	fi := SchlickWeight(AbsCosTheta(wi))
	rr := 2 * d.Roughness * cosThetaD * cosThetaD
	return d.R.Multiply(rr * (fo + fi + fo*fi*(rr-1)) / math.Pi)
}

func (d *DisneyRetro) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(d, wo, u)
}

func (d *DisneyRetro) PDF(wo, wi core.Vec3) float64 { return cosinePDF(wo, wi) }

// DisneySheen adds grazing retro-reflective tint for cloth-like surfaces
type DisneySheen struct {
	R core.Vec3
}

func NewDisneySheen(r core.Vec3) *DisneySheen { return &DisneySheen{R: r} }

func (d *DisneySheen) Kind() Kind { return KindDisneySheen }
func (d *DisneySheen) Type() Type { return Reflection | Diffuse }

func (d *DisneySheen) Evaluate(wo, wi core.Vec3) core.Vec3 {
	wh, ok := halfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}
	return d.R.Multiply(SchlickWeight(wi.Dot(wh)))
}

func (d *DisneySheen) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	return sampleCosineLobe(d, wo, u)
}

func (d *DisneySheen) PDF(wo, wi core.Vec3) float64 { return cosinePDF(wo, wi) }

// DisneyClearCoat is the second specular layer, with a GTR1 distribution and a
// fixed IOR of 1.5 (R0 = 0.04)
type DisneyClearCoat struct {
	Weight float64
	Gloss  float64 // GTR1 alpha
}

func NewDisneyClearCoat(weight, gloss float64) *DisneyClearCoat {
	return &DisneyClearCoat{Weight: weight, Gloss: gloss}
}

func (d *DisneyClearCoat) Kind() Kind { return KindDisneyClearCoat }
func (d *DisneyClearCoat) Type() Type { return Reflection | Glossy }

func gtr1(cosTheta, alpha float64) float64 {
	alpha2 := alpha * alpha
	return (alpha2 - 1) / (math.Pi * math.Log(alpha2) * (1 + (alpha2-1)*cosTheta*cosTheta))
}

func smithGGGX(cosTheta, alpha float64) float64 {
	alpha2 := alpha * alpha
	cos2Theta := cosTheta * cosTheta
	return 1 / (cosTheta + math.Sqrt(alpha2+cos2Theta-alpha2*cos2Theta))
}

func (d *DisneyClearCoat) Evaluate(wo, wi core.Vec3) core.Vec3 {
	wh, ok := halfVector(wo, wi)
	if !ok {
		return core.Vec3{}
	}

	dr := gtr1(AbsCosTheta(wh), d.Gloss)
	fr := FrSchlickFloat(.04, wo.Dot(wh))
	gr := smithGGGX(AbsCosTheta(wo), .25) * smithGGGX(AbsCosTheta(wi), .25)
	return core.NewGray(d.Weight * gr * fr * dr / 4)
}

func (d *DisneyClearCoat) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}

	alpha2 := d.Gloss * d.Gloss
	cosTheta := core.SafeSqrt((1 - math.Pow(alpha2, 1-u.X)) / (1 - alpha2))
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	wh := core.SphericalDirection(sinTheta, cosTheta, 2*math.Pi*u.Y)
	if !SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}

	wi := core.Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return Sample{}, false
	}
	pdf := d.PDF(wo, wi)
	if pdf == 0 {
		return Sample{}, false
	}
	return Sample{Wi: wi, Value: d.Evaluate(wo, wi), PDF: pdf, Type: d.Type()}, true
}

func (d *DisneyClearCoat) PDF(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh, ok := halfVector(wo, wi)
	if !ok {
		return 0
	}

	// The sampling routine draws from D(wh)|cos(wh)|, not the full density
	dr := gtr1(AbsCosTheta(wh), d.Gloss)
	return dr * AbsCosTheta(wh) / (4 * wo.Dot(wh))
}
