package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// RGB approximations of copper's complex index of refraction
var (
	CopperEta = core.NewVec3(0.200438, 0.924033, 1.10221)
	CopperK   = core.NewVec3(3.91295, 2.45285, 2.14219)
)

// MetalConfig describes a conductor by its complex index of refraction
type MetalConfig struct {
	Name           string
	Eta            Texture
	K              Texture // Absorption coefficient
	RoughnessU     Texture
	RoughnessV     Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
}

// DefaultMetalConfig returns slightly rough copper
func DefaultMetalConfig() MetalConfig {
	return MetalConfig{
		Name:           "metal",
		Eta:            NewConstantTexture(CopperEta),
		K:              NewConstantTexture(CopperK),
		RoughnessU:     NewConstantFloatTexture(0.01),
		RoughnessV:     NewConstantFloatTexture(0.01),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// MetalMaterial reflects with the conductor Fresnel equations
type MetalMaterial struct {
	surface
	eta        Texture
	k          Texture
	roughnessU Texture
	roughnessV Texture
	remap      bool
}

// NewMetalMaterial creates a metal material
func NewMetalMaterial(cfg MetalConfig) (*MetalMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"eta", cfg.Eta},
		namedTexture{"k", cfg.K},
		namedTexture{"uroughness", cfg.RoughnessU},
		namedTexture{"vroughness", cfg.RoughnessV},
	); err != nil {
		return nil, err
	}
	return &MetalMaterial{
		surface:    s,
		eta:        cfg.Eta,
		k:          cfg.K,
		roughnessU: cfg.RoughnessU,
		roughnessV: cfg.RoughnessV,
		remap:      cfg.RemapRoughness,
	}, nil
}

func (m *MetalMaterial) Type() Type { return TypeMetal }

func (m *MetalMaterial) Children() []Node {
	return m.nodes(m.eta, m.k, m.roughnessU, m.roughnessV)
}

func (m *MetalMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	fresnel := bxdf.NewConductorFresnel(core.White, sampleColor(m.eta, si), sampleColor(m.k, si))
	uRough := sampleRoughness(m.roughnessU, si)
	vRough := sampleRoughness(m.roughnessV, si)
	if uRough == 0 && vRough == 0 {
		return newBSDF(si, 1, bxdf.NewSpecularBRDF(core.White, fresnel))
	}

	alphaX, alphaY := microfacetAlphas(uRough, vRough, m.remap)
	distribution := bxdf.NewTrowbridgeReitz(alphaX, alphaY)
	return newBSDF(si, 1, bxdf.NewTorranceSparrowBRDF(core.White, distribution, fresnel))
}
