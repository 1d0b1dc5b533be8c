package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// GlossyConfig describes a colored conductor-like glossy reflector
type GlossyConfig struct {
	Name           string
	KR             Texture // Normal-incidence reflectance
	Roughness      Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
}

// DefaultGlossyConfig returns a half-reflective glossy surface
func DefaultGlossyConfig() GlossyConfig {
	return GlossyConfig{
		Name:           "glossy",
		KR:             NewConstantTexture(core.NewGray(0.5)),
		Roughness:      NewConstantFloatTexture(0.2),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// GlossyMaterial reflects through a single microfacet lobe whose Fresnel term
// is a conductor with absorption KR
type GlossyMaterial struct {
	surface
	kr        Texture
	roughness Texture
	remap     bool
}

// NewGlossyMaterial creates a glossy material
func NewGlossyMaterial(cfg GlossyConfig) (*GlossyMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(namedTexture{"Kr", cfg.KR}, namedTexture{"roughness", cfg.Roughness}); err != nil {
		return nil, err
	}
	return &GlossyMaterial{surface: s, kr: cfg.KR, roughness: cfg.Roughness, remap: cfg.RemapRoughness}, nil
}

func (m *GlossyMaterial) Type() Type { return TypeGlossy }

func (m *GlossyMaterial) Children() []Node { return m.nodes(m.kr, m.roughness) }

func (m *GlossyMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	kr := sampleColor(m.kr, si)
	if kr.IsBlack() {
		return newBSDF(si, 1)
	}

	fresnel := bxdf.NewConductorFresnel(kr, core.White, core.White)
	rough := sampleRoughness(m.roughness, si)
	if rough == 0 {
		return newBSDF(si, 1, bxdf.NewSpecularBRDF(core.White, fresnel))
	}
	alpha, _ := microfacetAlphas(rough, rough, m.remap)
	distribution := bxdf.NewTrowbridgeReitz(alpha, alpha)
	return newBSDF(si, 1, bxdf.NewTorranceSparrowBRDF(core.White, distribution, fresnel))
}
