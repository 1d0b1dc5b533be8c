package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// PlasticConfig describes a diffuse base under a dielectric glossy coat
type PlasticConfig struct {
	Name           string
	KD             Texture
	KS             Texture
	Roughness      Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
}

// DefaultPlasticConfig returns the conventional dull plastic
func DefaultPlasticConfig() PlasticConfig {
	return PlasticConfig{
		Name:           "plastic",
		KD:             NewConstantTexture(core.NewGray(0.25)),
		KS:             NewConstantTexture(core.NewGray(0.25)),
		Roughness:      NewConstantFloatTexture(0.1),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// PlasticMaterial mixes Lambertian and microfacet reflection
type PlasticMaterial struct {
	surface
	kd        Texture
	ks        Texture
	roughness Texture
	remap     bool
}

// NewPlasticMaterial creates a plastic material
func NewPlasticMaterial(cfg PlasticConfig) (*PlasticMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"Kd", cfg.KD},
		namedTexture{"Ks", cfg.KS},
		namedTexture{"roughness", cfg.Roughness},
	); err != nil {
		return nil, err
	}
	return &PlasticMaterial{surface: s, kd: cfg.KD, ks: cfg.KS, roughness: cfg.Roughness, remap: cfg.RemapRoughness}, nil
}

func (m *PlasticMaterial) Type() Type { return TypePlastic }

func (m *PlasticMaterial) Children() []Node { return m.nodes(m.kd, m.ks, m.roughness) }

func (m *PlasticMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	var lobes []bxdf.BXDF
	if kd := sampleColor(m.kd, si); !kd.IsBlack() {
		lobes = append(lobes, bxdf.NewLambertianBRDF(kd))
	}

	if ks := sampleColor(m.ks, si); !ks.IsBlack() {
		fresnel := bxdf.NewDielectricFresnel(1.5, 1)
		rough := sampleRoughness(m.roughness, si)
		if rough == 0 {
			lobes = append(lobes, bxdf.NewSpecularBRDF(ks, fresnel))
		} else {
			alpha, _ := microfacetAlphas(rough, rough, m.remap)
			lobes = append(lobes, bxdf.NewTorranceSparrowBRDF(ks, bxdf.NewTrowbridgeReitz(alpha, alpha), fresnel))
		}
	}
	return newBSDF(si, 1, lobes...)
}
