package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// GlassConfig describes a smooth or rough dielectric interface
type GlassConfig struct {
	Name           string
	KR             Texture // Reflection scale
	KT             Texture // Transmission scale
	Eta            Texture // Index of refraction inside the surface
	RoughnessU     Texture
	RoughnessV     Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
}

// DefaultGlassConfig returns clear, smooth glass
func DefaultGlassConfig() GlassConfig {
	return GlassConfig{
		Name:           "glass",
		KR:             NewConstantTexture(core.White),
		KT:             NewConstantTexture(core.White),
		Eta:            NewConstantFloatTexture(1.5),
		RoughnessU:     NewConstantFloatTexture(0),
		RoughnessV:     NewConstantFloatTexture(0),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// GlassMaterial reflects and refracts at a dielectric boundary
type GlassMaterial struct {
	surface
	kr         Texture
	kt         Texture
	eta        Texture
	roughnessU Texture
	roughnessV Texture
	remap      bool
}

// NewGlassMaterial creates a glass material
func NewGlassMaterial(cfg GlassConfig) (*GlassMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"Kr", cfg.KR},
		namedTexture{"Kt", cfg.KT},
		namedTexture{"eta", cfg.Eta},
		namedTexture{"uroughness", cfg.RoughnessU},
		namedTexture{"vroughness", cfg.RoughnessV},
	); err != nil {
		return nil, err
	}
	return &GlassMaterial{
		surface:    s,
		kr:         cfg.KR,
		kt:         cfg.KT,
		eta:        cfg.Eta,
		roughnessU: cfg.RoughnessU,
		roughnessV: cfg.RoughnessV,
		remap:      cfg.RemapRoughness,
	}, nil
}

func (m *GlassMaterial) Type() Type { return TypeGlass }

func (m *GlassMaterial) Children() []Node {
	return m.nodes(m.kr, m.kt, m.eta, m.roughnessU, m.roughnessV)
}

func (m *GlassMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	eta := m.eta.EvaluateFloat(si)
	lobes := dielectric{
		r:      sampleColor(m.kr, si),
		t:      sampleColor(m.kt, si),
		eta:    eta,
		uRough: sampleRoughness(m.roughnessU, si),
		vRough: sampleRoughness(m.roughnessV, si),
		remap:  m.remap,
	}.lobes(mode, allowMultipleLobes)
	return newBSDF(si, eta, lobes...)
}

// dielectric is the sampled state of a dielectric interface shared by the
// glass and subsurface materials
type dielectric struct {
	r, t           core.Vec3
	eta            float64
	uRough, vRough float64
	remap          bool
}

func (d dielectric) lobes(mode bxdf.TransportMode, allowMultipleLobes bool) []bxdf.BXDF {
	if d.r.IsBlack() && d.t.IsBlack() {
		return nil
	}

	isSpecular := d.uRough == 0 && d.vRough == 0
	if isSpecular && allowMultipleLobes {
		return []bxdf.BXDF{bxdf.NewFresnelSpecular(d.r, d.t, 1, d.eta, mode)}
	}

	var distribution bxdf.TrowbridgeReitz
	if !isSpecular {
		alphaX, alphaY := microfacetAlphas(d.uRough, d.vRough, d.remap)
		distribution = bxdf.NewTrowbridgeReitz(alphaX, alphaY)
	}

	var lobes []bxdf.BXDF
	if !d.r.IsBlack() {
		fresnel := bxdf.NewDielectricFresnel(1, d.eta)
		if isSpecular {
			lobes = append(lobes, bxdf.NewSpecularBRDF(d.r, fresnel))
		} else {
			lobes = append(lobes, bxdf.NewTorranceSparrowBRDF(d.r, distribution, fresnel))
		}
	}
	if !d.t.IsBlack() {
		if isSpecular {
			lobes = append(lobes, bxdf.NewSpecularBTDF(d.t, 1, d.eta, mode))
		} else {
			lobes = append(lobes, bxdf.NewTorranceSparrowBTDF(d.t, distribution, 1, d.eta, mode))
		}
	}
	return lobes
}
