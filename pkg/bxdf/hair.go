package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// hairPMax is the number of explicitly modeled scattering events (R, TT, TRT);
// higher orders are lumped into a single isotropic term
const hairPMax = 3

const sqrtPiOver8 = 0.626657069

// hairMinBeta keeps the longitudinal variance and logistic scale positive
const hairMinBeta = 1e-3

// HairBXDF is the Chiang et al. hair scattering model. The local frame has +X
// along the hair tangent; H is the offset across the fiber in [-1, 1].
type HairBXDF struct {
	H      float64
	Eta    float64
	SigmaA core.Vec3
	BetaM  float64
	BetaN  float64
	Alpha  float64 // Cuticle tilt in degrees

	gammaO     float64
	v          [hairPMax + 1]float64
	s          float64
	sin2kAlpha [3]float64
	cos2kAlpha [3]float64
}

// NewHairBXDF precomputes the longitudinal variances and azimuthal scale for a
// fiber. Both roughnesses are clamped to [0.001, 1].
func NewHairBXDF(h, eta float64, sigmaA core.Vec3, betaM, betaN, alpha float64) *HairBXDF {
	hb := &HairBXDF{
		H:      core.Clamp(h, -1, 1),
		Eta:    eta,
		SigmaA: sigmaA,
		BetaM:  core.Clamp(betaM, hairMinBeta, 1),
		BetaN:  core.Clamp(betaN, hairMinBeta, 1),
		Alpha:  alpha,
	}
	betaM, betaN = hb.BetaM, hb.BetaN
	hb.gammaO = core.SafeASin(hb.H)

	// Longitudinal variance per scattering order
	v0 := 0.726*betaM + 0.812*betaM*betaM + 3.7*math.Pow(betaM, 20)
	hb.v[0] = v0 * v0
	hb.v[1] = .25 * hb.v[0]
	hb.v[2] = 4 * hb.v[0]
	for p := 3; p <= hairPMax; p++ {
		hb.v[p] = hb.v[2]
	}

	// Azimuthal logistic scale
	hb.s = sqrtPiOver8 * (0.265*betaN + 1.194*betaN*betaN + 5.372*math.Pow(betaN, 22))

	// Cuticle tilt rotations for 2^k * alpha
	hb.sin2kAlpha[0] = math.Sin(core.Radians(alpha))
	hb.cos2kAlpha[0] = core.SafeSqrt(1 - hb.sin2kAlpha[0]*hb.sin2kAlpha[0])
	for i := 1; i < 3; i++ {
		hb.sin2kAlpha[i] = 2 * hb.cos2kAlpha[i-1] * hb.sin2kAlpha[i-1]
		hb.cos2kAlpha[i] = hb.cos2kAlpha[i-1]*hb.cos2kAlpha[i-1] - hb.sin2kAlpha[i-1]*hb.sin2kAlpha[i-1]
	}
	return hb
}

func (hb *HairBXDF) Kind() Kind { return KindHair }
func (hb *HairBXDF) Type() Type { return Reflection | Transmission | Glossy }

// tiltedAngles returns sin/cos of thetaO rotated by the cuticle tilt for order p
func (hb *HairBXDF) tiltedAngles(p int, sinThetaO, cosThetaO float64) (float64, float64) {
	var sinThetaOp, cosThetaOp float64
	switch p {
	case 0:
		sinThetaOp = sinThetaO*hb.cos2kAlpha[1] - cosThetaO*hb.sin2kAlpha[1]
		cosThetaOp = cosThetaO*hb.cos2kAlpha[1] + sinThetaO*hb.sin2kAlpha[1]
	case 1:
		sinThetaOp = sinThetaO*hb.cos2kAlpha[0] + cosThetaO*hb.sin2kAlpha[0]
		cosThetaOp = cosThetaO*hb.cos2kAlpha[0] - sinThetaO*hb.sin2kAlpha[0]
	case 2:
		sinThetaOp = sinThetaO*hb.cos2kAlpha[2] + cosThetaO*hb.sin2kAlpha[2]
		cosThetaOp = cosThetaO*hb.cos2kAlpha[2] - sinThetaO*hb.sin2kAlpha[2]
	default:
		sinThetaOp, cosThetaOp = sinThetaO, cosThetaO
	}
	return sinThetaOp, math.Abs(cosThetaOp)
}

// transmittance returns the absorption along one internal path segment and gammaT
func (hb *HairBXDF) transmittance(sinThetaO, cosThetaO float64) (core.Vec3, float64) {
	sinThetaT := sinThetaO / hb.Eta
	cosThetaT := core.SafeSqrt(1 - sinThetaT*sinThetaT)

	etap := math.Sqrt(hb.Eta*hb.Eta-sinThetaO*sinThetaO) / cosThetaO
	sinGammaT := hb.H / etap
	cosGammaT := core.SafeSqrt(1 - sinGammaT*sinGammaT)
	gammaT := core.SafeASin(sinGammaT)

	return hb.SigmaA.Multiply(-2 * cosGammaT / cosThetaT).Exp(), gammaT
}

func hairAngles(w core.Vec3) (sinTheta, cosTheta, phi float64) {
	sinTheta = w.X
	cosTheta = core.SafeSqrt(1 - sinTheta*sinTheta)
	phi = math.Atan2(w.Z, w.Y)
	return
}

func (hb *HairBXDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	sinThetaO, cosThetaO, phiO := hairAngles(wo)
	sinThetaI, cosThetaI, phiI := hairAngles(wi)

	t, gammaT := hb.transmittance(sinThetaO, cosThetaO)
	phi := phiI - phiO
	ap := hairAp(cosThetaO, hb.Eta, hb.H, t)

	var fsum core.Vec3
	for p := 0; p < hairPMax; p++ {
		sinThetaOp, cosThetaOp := hb.tiltedAngles(p, sinThetaO, cosThetaO)
		mp := hairMp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, hb.v[p])
		fsum = fsum.Add(ap[p].Multiply(mp * hairNp(phi, p, hb.s, hb.gammaO, gammaT)))
	}
	mp := hairMp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, hb.v[hairPMax])
	fsum = fsum.Add(ap[hairPMax].Multiply(mp / (2 * math.Pi)))

	if AbsCosTheta(wi) > 0 {
		fsum = fsum.Divide(AbsCosTheta(wi))
	}
	return fsum
}

// apPDF returns the discrete probability of sampling each scattering order
func (hb *HairBXDF) apPDF(cosThetaO float64) [hairPMax + 1]float64 {
	sinThetaO := core.SafeSqrt(1 - cosThetaO*cosThetaO)
	t, _ := hb.transmittance(sinThetaO, cosThetaO)
	ap := hairAp(cosThetaO, hb.Eta, hb.H, t)

	var pdf [hairPMax + 1]float64
	sum := 0.0
	for i := range ap {
		sum += ap[i].Luminance()
	}
	if sum <= 0 {
		return pdf
	}
	for i := range ap {
		pdf[i] = ap[i].Luminance() / sum
	}
	return pdf
}

func (hb *HairBXDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	sinThetaO, cosThetaO, phiO := hairAngles(wo)

	// Four uniform values from the two supplied
	u00, u01 := DemuxFloat(u.X)
	u10, u11 := DemuxFloat(u.Y)

	apPDF := hb.apPDF(cosThetaO)
	p := 0
	for ; p < hairPMax; p++ {
		if u00 < apPDF[p] {
			break
		}
		u00 -= apPDF[p]
	}

	sinThetaOp, cosThetaOp := hb.tiltedAngles(p, sinThetaO, cosThetaO)

	// Longitudinal sample
	u10 = math.Max(u10, 1e-5)
	cosTheta := 1 + hb.v[p]*math.Log(u10+(1-u10)*math.Exp(-2/hb.v[p]))
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	cosPhi := math.Cos(2 * math.Pi * u11)
	sinThetaI := -cosTheta*sinThetaOp + sinTheta*cosPhi*cosThetaOp
	cosThetaI := core.SafeSqrt(1 - sinThetaI*sinThetaI)

	// Azimuthal sample
	_, gammaT := hb.transmittance(sinThetaO, cosThetaO)
	var dphi float64
	if p < hairPMax {
		dphi = hairPhi(p, hb.gammaO, gammaT) + sampleTrimmedLogistic(u01, hb.s, -math.Pi, math.Pi)
	} else {
		dphi = 2 * math.Pi * u01
	}

	phiI := phiO + dphi
	wi := core.NewVec3(sinThetaI, cosThetaI*math.Cos(phiI), cosThetaI*math.Sin(phiI))

	pdf := hb.pdf(sinThetaO, cosThetaO, sinThetaI, cosThetaI, dphi, gammaT, apPDF)
	if pdf <= 0 || math.IsNaN(pdf) {
		return Sample{}, false
	}

	st := Reflection
	if !SameHemisphere(wo, wi) {
		st = Transmission
	}
	return Sample{Wi: wi, Value: hb.Evaluate(wo, wi), PDF: pdf, Type: st | Glossy}, true
}

func (hb *HairBXDF) PDF(wo, wi core.Vec3) float64 {
	sinThetaO, cosThetaO, phiO := hairAngles(wo)
	sinThetaI, cosThetaI, phiI := hairAngles(wi)

	_, gammaT := hb.transmittance(sinThetaO, cosThetaO)
	return hb.pdf(sinThetaO, cosThetaO, sinThetaI, cosThetaI, phiI-phiO, gammaT, hb.apPDF(cosThetaO))
}

func (hb *HairBXDF) pdf(sinThetaO, cosThetaO, sinThetaI, cosThetaI, dphi, gammaT float64, apPDF [hairPMax + 1]float64) float64 {
	pdf := 0.0
	for p := 0; p < hairPMax; p++ {
		sinThetaOp, cosThetaOp := hb.tiltedAngles(p, sinThetaO, cosThetaO)
		pdf += hairMp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, hb.v[p]) *
			apPDF[p] * hairNp(dphi, p, hb.s, hb.gammaO, gammaT)
	}
	pdf += hairMp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, hb.v[hairPMax]) *
		apPDF[hairPMax] / (2 * math.Pi)
	return pdf
}

// hairAp returns the attenuation of each scattering order
func hairAp(cosThetaO, eta, h float64, t core.Vec3) [hairPMax + 1]core.Vec3 {
	var ap [hairPMax + 1]core.Vec3

	cosGammaO := core.SafeSqrt(1 - h*h)
	cosTheta := cosThetaO * cosGammaO
	f := FrDielectric(cosTheta, 1, eta)
	ap[0] = core.NewGray(f)

	ap[1] = t.Multiply((1 - f) * (1 - f))
	for p := 2; p < hairPMax; p++ {
		ap[p] = ap[p-1].MultiplyVec(t).Multiply(f)
	}

	// Geometric series for the remaining orders
	tf := t.Multiply(f)
	ap[hairPMax] = ap[hairPMax-1].MultiplyVec(tf).DivideVec(core.White.Subtract(tf))
	return ap
}

// hairMp is the longitudinal scattering function
func hairMp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, v float64) float64 {
	a := cosThetaI * cosThetaO / v
	b := sinThetaI * sinThetaO / v
	if v <= .1 {
		return math.Exp(logI0(a) - b - 1/v + 0.6931 + math.Log(1/(2*v)))
	}
	return (math.Exp(-b) * i0(a)) / (math.Sinh(1/v) * 2 * v)
}

// i0 is the modified Bessel function of the first kind, order zero
func i0(x float64) float64 {
	val := 0.0
	x2i := 1.0
	ifact := 1.0
	i4 := 1.0
	for i := 0; i < 10; i++ {
		if i > 1 {
			ifact *= float64(i)
		}
		val += x2i / (i4 * ifact * ifact)
		x2i *= x * x
		i4 *= 4
	}
	return val
}

func logI0(x float64) float64 {
	if x > 12 {
		return x + 0.5*(-math.Log(2*math.Pi)+math.Log(1/x)+1/(8*x))
	}
	return math.Log(i0(x))
}

func hairPhi(p int, gammaO, gammaT float64) float64 {
	return 2*float64(p)*gammaT - 2*gammaO + float64(p)*math.Pi
}

// hairNp is the azimuthal scattering function
func hairNp(phi float64, p int, s, gammaO, gammaT float64) float64 {
	dphi := phi - hairPhi(p, gammaO, gammaT)
	for dphi > math.Pi {
		dphi -= 2 * math.Pi
	}
	for dphi < -math.Pi {
		dphi += 2 * math.Pi
	}
	return trimmedLogistic(dphi, s, -math.Pi, math.Pi)
}

func logistic(x, s float64) float64 {
	x = math.Abs(x)
	e := math.Exp(-x / s)
	return e / (s * (1 + e) * (1 + e))
}

func logisticCDF(x, s float64) float64 {
	return 1 / (1 + math.Exp(-x/s))
}

func trimmedLogistic(x, s, a, b float64) float64 {
	return logistic(x, s) / (logisticCDF(b, s) - logisticCDF(a, s))
}

func sampleTrimmedLogistic(u, s, a, b float64) float64 {
	k := logisticCDF(b, s) - logisticCDF(a, s)
	x := -s * math.Log(1/(u*k+logisticCDF(a, s))-1)
	return core.Clamp(x, a, b)
}

// compact1By1 keeps the even bits of x, packed into the low half
func compact1By1(x uint32) uint32 {
	x &= 0x55555555
	x = (x ^ (x >> 1)) & 0x33333333
	x = (x ^ (x >> 2)) & 0x0f0f0f0f
	x = (x ^ (x >> 4)) & 0x00ff00ff
	x = (x ^ (x >> 8)) & 0x0000ffff
	return x
}

// DemuxFloat splits one uniform value in [0, 1) into two by de-interleaving its bits
func DemuxFloat(f float64) (float64, float64) {
	v := uint64(core.Clamp(f, 0, core.OneMinusEpsilon) * (1 << 32))
	bits := uint32(v)
	return float64(compact1By1(bits)) / (1 << 16), float64(compact1By1(bits>>1)) / (1 << 16)
}

var (
	eumelaninSigmaA   = core.NewVec3(0.419, 0.697, 1.37)
	pheomelaninSigmaA = core.NewVec3(0.187, 0.4, 1.05)
)

// SigmaAFromConcentration returns the absorption coefficient of hair with the
// given melanin concentrations
func SigmaAFromConcentration(eumelanin, pheomelanin float64) core.Vec3 {
	return eumelaninSigmaA.Multiply(eumelanin).Add(pheomelaninSigmaA.Multiply(pheomelanin))
}

// SigmaAFromReflectance inverts the fitted relation between absorption and the
// multiple-scattered color of a fiber with azimuthal roughness betaN
func SigmaAFromReflectance(c core.Vec3, betaN float64) core.Vec3 {
	denom := 5.969 - 0.215*betaN + 2.532*math.Pow(betaN, 2) - 10.73*math.Pow(betaN, 3) +
		5.574*math.Pow(betaN, 4) + 0.245*math.Pow(betaN, 5)
	channel := func(x float64) float64 {
		r := math.Log(x) / denom
		return r * r
	}
	return core.NewVec3(channel(c.X), channel(c.Y), channel(c.Z))
}
