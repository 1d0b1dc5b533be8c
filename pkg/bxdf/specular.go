package bxdf

import (
	"github.com/df07/go-scattering/pkg/core"
)

var localNormal = core.NewVec3(0, 0, 1)

// SpecularBRDF is a Fresnel-weighted perfect mirror
type SpecularBRDF struct {
	R       core.Vec3
	Fresnel Fresnel
}

// NewSpecularBRDF creates a mirror reflection lobe
func NewSpecularBRDF(r core.Vec3, fresnel Fresnel) *SpecularBRDF {
	return &SpecularBRDF{R: r, Fresnel: fresnel}
}

func (s *SpecularBRDF) Kind() Kind { return KindSpecularBRDF }
func (s *SpecularBRDF) Type() Type { return Reflection | Specular }

// Evaluate is zero for any explicit direction pair (delta distribution)
func (s *SpecularBRDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularBRDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	value := s.Fresnel.Evaluate(CosTheta(wi)).MultiplyVec(s.R).Divide(AbsCosTheta(wi))
	return Sample{Wi: wi, Value: value, PDF: 1, Type: s.Type()}, true
}

func (s *SpecularBRDF) PDF(wo, wi core.Vec3) float64 {
	return 0
}

// SpecularBTDF is a Fresnel-weighted perfect refraction
type SpecularBTDF struct {
	T          core.Vec3
	EtaA, EtaB float64 // Outside (normal side) and inside indices
	Mode       TransportMode
	fresnel    DielectricFresnel
}

// NewSpecularBTDF creates a refraction lobe between media etaA (above) and etaB (below)
func NewSpecularBTDF(t core.Vec3, etaA, etaB float64, mode TransportMode) *SpecularBTDF {
	return &SpecularBTDF{T: t, EtaA: etaA, EtaB: etaB, Mode: mode, fresnel: NewDielectricFresnel(etaA, etaB)}
}

func (s *SpecularBTDF) Kind() Kind { return KindSpecularBTDF }
func (s *SpecularBTDF) Type() Type { return Transmission | Specular }

func (s *SpecularBTDF) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularBTDF) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}
	etaI, etaT := s.EtaA, s.EtaB
	if CosTheta(wo) <= 0 {
		etaI, etaT = etaT, etaI
	}

	wi, ok := core.Refract(wo, core.FaceForward(localNormal, wo), etaI/etaT)
	if !ok {
		return Sample{}, false
	}

	ft := s.T.MultiplyVec(core.White.Subtract(s.fresnel.Evaluate(CosTheta(wi))))
	if s.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return Sample{Wi: wi, Value: ft.Divide(AbsCosTheta(wi)), PDF: 1, Type: s.Type()}, true
}

func (s *SpecularBTDF) PDF(wo, wi core.Vec3) float64 {
	return 0
}

// FresnelSpecular combines mirror reflection and refraction in a single lobe,
// choosing between them with probability equal to the Fresnel reflectance
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       TransportMode
}

// NewFresnelSpecular creates a combined dielectric delta lobe
func NewFresnelSpecular(r, t core.Vec3, etaA, etaB float64, mode TransportMode) *FresnelSpecular {
	return &FresnelSpecular{R: r, T: t, EtaA: etaA, EtaB: etaB, Mode: mode}
}

func (f *FresnelSpecular) Kind() Kind { return KindFresnelSpecular }
func (f *FresnelSpecular) Type() Type { return Reflection | Transmission | Specular }

func (f *FresnelSpecular) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (f *FresnelSpecular) Sample(wo core.Vec3, u core.Vec2) (Sample, bool) {
	if CosTheta(wo) == 0 {
		return Sample{}, false
	}
	fr := FrDielectric(CosTheta(wo), f.EtaA, f.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		value := f.R.Multiply(fr / AbsCosTheta(wi))
		return Sample{Wi: wi, Value: value, PDF: fr, Type: Reflection | Specular}, true
	}

	etaI, etaT := f.EtaA, f.EtaB
	if CosTheta(wo) <= 0 {
		etaI, etaT = etaT, etaI
	}
	wi, ok := core.Refract(wo, core.FaceForward(localNormal, wo), etaI/etaT)
	if !ok {
		return Sample{}, false
	}
	ft := f.T.Multiply(1 - fr)
	if f.Mode == Radiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return Sample{Wi: wi, Value: ft.Divide(AbsCosTheta(wi)), PDF: 1 - fr, Type: Transmission | Specular}, true
}

func (f *FresnelSpecular) PDF(wo, wi core.Vec3) float64 {
	return 0
}
