package bxdf

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// MinAlpha is the smallest alpha a distribution is ever built with. Materials
// treat zero roughness as a delta lobe instead of going below it.
const MinAlpha = 0.001

// RoughnessToAlpha maps a perceptual roughness in [0, 1] to a Trowbridge-Reitz
// alpha. The mapping is monotonically non-decreasing and returns MinAlpha at 0.
func RoughnessToAlpha(roughness float64) float64 {
	return math.Max(MinAlpha, math.Sqrt(core.Clamp(roughness, 0, 1)))
}

// TrowbridgeReitz is the anisotropic GGX microfacet distribution
type TrowbridgeReitz struct {
	AlphaX, AlphaY float64

	// SampleVisibleArea samples only microfacet normals visible from wo
	SampleVisibleArea bool

	// Separable replaces the height-correlated masking term with G1(wo)*G1(wi)
	Separable bool
}

// NewTrowbridgeReitz creates a distribution that samples visible normals
func NewTrowbridgeReitz(alphaX, alphaY float64) TrowbridgeReitz {
	return TrowbridgeReitz{
		AlphaX:            math.Max(MinAlpha, alphaX),
		AlphaY:            math.Max(MinAlpha, alphaY),
		SampleVisibleArea: true,
	}
}

// NewDisneyTrowbridgeReitz creates the separable-masking variant used by the principled lobes
func NewDisneyTrowbridgeReitz(alphaX, alphaY float64) TrowbridgeReitz {
	d := NewTrowbridgeReitz(alphaX, alphaY)
	d.Separable = true
	return d
}

// D is the normal distribution function
func (d TrowbridgeReitz) D(wh core.Vec3) float64 {
	tan2Theta := Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	cos4Theta := Cos2Theta(wh) * Cos2Theta(wh)
	e := (Cos2Phi(wh)/(d.AlphaX*d.AlphaX) + Sin2Phi(wh)/(d.AlphaY*d.AlphaY)) * tan2Theta
	return 1 / (math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e))
}

// Lambda is the Smith auxiliary function
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(TanTheta(w))
	if math.IsInf(absTanTheta, 0) || math.IsNaN(absTanTheta) {
		return 0
	}
	alpha := math.Sqrt(Cos2Phi(w)*d.AlphaX*d.AlphaX + Sin2Phi(w)*d.AlphaY*d.AlphaY)
	alpha2Tan2Theta := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2Theta)) / 2
}

// G1 is the masking function for a single direction
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G is the combined shadowing-masking term
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	if d.Separable {
		return d.G1(wo) * d.G1(wi)
	}
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWh samples a microfacet normal in the hemisphere of wo
func (d TrowbridgeReitz) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	if d.SampleVisibleArea {
		flip := wo.Z < 0
		w := wo
		if flip {
			w = wo.Negate()
		}
		wh := d.sampleVisible(w, u)
		if flip {
			wh = wh.Negate()
		}
		return wh
	}

	var tan2Theta, phi float64
	if d.AlphaX == d.AlphaY {
		tan2Theta = d.AlphaX * d.AlphaX * u.X / (1 - u.X)
		phi = 2 * math.Pi * u.Y
	} else {
		phi = math.Atan(d.AlphaY / d.AlphaX * math.Tan(2*math.Pi*u.Y+.5*math.Pi))
		if u.Y > .5 {
			phi += math.Pi
		}
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		alphax2, alphay2 := d.AlphaX*d.AlphaX, d.AlphaY*d.AlphaY
		alpha2 := 1 / (cosPhi*cosPhi/alphax2 + sinPhi*sinPhi/alphay2)
		tan2Theta = alpha2 * u.X / (1 - u.X)
	}
	cosTheta := 1 / math.Sqrt(1+tan2Theta)
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	wh := core.SphericalDirection(sinTheta, cosTheta, phi)
	if !SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}
	return wh
}

// sampleVisible samples the distribution of visible normals for wo.Z >= 0
func (d TrowbridgeReitz) sampleVisible(wo core.Vec3, u core.Vec2) core.Vec3 {
	// Transform to the hemispherical configuration
	wh := core.NewVec3(d.AlphaX*wo.X, d.AlphaY*wo.Y, wo.Z).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	var t1 core.Vec3
	if wh.Z < 0.99999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wh).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	// Warp a disk sample toward the visible projected area
	p := core.SamplePointInUnitDiskPolar(u)
	h := math.Sqrt(1 - p.X*p.X)
	p.Y = core.LerpFloat((1+wh.Z)/2, h, p.Y)

	pz := core.SafeSqrt(1 - p.X*p.X - p.Y*p.Y)
	nh := t1.Multiply(p.X).Add(t2.Multiply(p.Y)).Add(wh.Multiply(pz))

	return core.NewVec3(d.AlphaX*nh.X, d.AlphaY*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// PDF returns the density of SampleWh producing wh
func (d TrowbridgeReitz) PDF(wo, wh core.Vec3) float64 {
	if d.SampleVisibleArea {
		if CosTheta(wo) == 0 {
			return 0
		}
		return d.D(wh) * d.G1(wo) * wo.AbsDot(wh) / AbsCosTheta(wo)
	}
	return d.D(wh) * AbsCosTheta(wh)
}
