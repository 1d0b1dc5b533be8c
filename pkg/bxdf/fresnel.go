package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// Fresnel returns the fraction of light reflected at an interface for a given
// cosine of the incident angle
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// DielectricFresnel is the Fresnel term of an interface between two dielectrics
type DielectricFresnel struct {
	EtaI, EtaT float64
}

// NewDielectricFresnel creates a dielectric Fresnel term
func NewDielectricFresnel(etaI, etaT float64) DielectricFresnel {
	return DielectricFresnel{EtaI: etaI, EtaT: etaT}
}

func (f DielectricFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	return core.NewGray(FrDielectric(cosThetaI, f.EtaI, f.EtaT))
}

// ConductorFresnel is the Fresnel term of a dielectric-conductor interface with
// complex index EtaT + i*K
type ConductorFresnel struct {
	EtaI, EtaT, K core.Vec3
}

// NewConductorFresnel creates a conductor Fresnel term
func NewConductorFresnel(etaI, etaT, k core.Vec3) ConductorFresnel {
	return ConductorFresnel{EtaI: etaI, EtaT: etaT, K: k}
}

func (f ConductorFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	return FrConductor(math.Abs(cosThetaI), f.EtaI, f.EtaT, f.K)
}

// DisneyFresnel blends a dielectric term with a Schlick term toward R0 by the
// metallic factor
type DisneyFresnel struct {
	R0       core.Vec3
	Metallic float64
	Eta      float64
}

// NewDisneyFresnel creates a Disney-blend Fresnel term
func NewDisneyFresnel(r0 core.Vec3, metallic, eta float64) DisneyFresnel {
	return DisneyFresnel{R0: r0, Metallic: metallic, Eta: eta}
}

func (f DisneyFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	return core.Lerp(f.Metallic, core.NewGray(FrDielectric(cosThetaI, 1, f.Eta)), FrSchlick(f.R0, cosThetaI))
}

// NoOpFresnel reflects everything
type NoOpFresnel struct{}

func (NoOpFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	return core.White
}

// FrDielectric computes the unpolarized Fresnel reflectance of a dielectric
// interface. A negative cosine means the ray arrives from the etaT side.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	// Snell's law
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI

	// Total internal reflection
	if sinThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := ((etaT * cosThetaI) - (etaI * cosThetaT)) / ((etaT * cosThetaI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosThetaI) - (etaT * cosThetaT)) / ((etaI * cosThetaI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FrConductor computes the Fresnel reflectance of a conductor per channel
func FrConductor(cosThetaI float64, etaI, etaT, k core.Vec3) core.Vec3 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	eta := etaT.DivideVec(etaI)
	etak := k.DivideVec(etaI)

	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2

	channel := func(eta, etak float64) float64 {
		eta2 := eta * eta
		etak2 := etak * etak

		t0 := eta2 - etak2 - sin2
		a2plusb2 := math.Sqrt(t0*t0 + 4*eta2*etak2)
		t1 := a2plusb2 + cos2
		a := math.Sqrt(math.Max(0, 0.5*(a2plusb2+t0)))
		t2 := 2 * cosThetaI * a
		rs := (t1 - t2) / (t1 + t2)

		t3 := cos2*a2plusb2 + sin2*sin2
		t4 := t2 * sin2
		rp := rs * (t3 - t4) / (t3 + t4)

		return 0.5 * (rp + rs)
	}

	return core.NewVec3(
		channel(eta.X, etak.X),
		channel(eta.Y, etak.Y),
		channel(eta.Z, etak.Z),
	)
}

// SchlickWeight returns (1 - cosTheta)^5
func SchlickWeight(cosTheta float64) float64 {
	m := core.Clamp(1-cosTheta, 0, 1)
	return (m * m) * (m * m) * m
}

// FrSchlick is Schlick's approximation toward R0
func FrSchlick(r0 core.Vec3, cosTheta float64) core.Vec3 {
	return core.Lerp(SchlickWeight(cosTheta), r0, core.White)
}

// FrSchlickFloat is the scalar form of FrSchlick
func FrSchlickFloat(r0, cosTheta float64) float64 {
	return core.LerpFloat(SchlickWeight(cosTheta), r0, 1)
}

// SchlickR0FromEta returns the normal-incidence reflectance for a relative IOR
func SchlickR0FromEta(eta float64) float64 {
	r := (eta - 1) / (eta + 1)
	return r * r
}
