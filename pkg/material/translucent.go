package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// translucentEta is the index of refraction of the glossy coat
const translucentEta = 1.5

// TranslucentConfig describes a thin surface that scatters light to both sides
type TranslucentConfig struct {
	Name           string
	KD             Texture
	KS             Texture
	Reflect        Texture // Fraction of scattered light reflected
	Transmit       Texture // Fraction of scattered light transmitted
	Roughness      Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
}

// DefaultTranslucentConfig returns an evenly split translucent surface
func DefaultTranslucentConfig() TranslucentConfig {
	return TranslucentConfig{
		Name:           "translucent",
		KD:             NewConstantTexture(core.NewGray(0.25)),
		KS:             NewConstantTexture(core.NewGray(0.25)),
		Reflect:        NewConstantTexture(core.NewGray(0.5)),
		Transmit:       NewConstantTexture(core.NewGray(0.5)),
		Roughness:      NewConstantFloatTexture(0.1),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// TranslucentMaterial has diffuse and glossy lobes on both sides of the surface
type TranslucentMaterial struct {
	surface
	kd        Texture
	ks        Texture
	reflect   Texture
	transmit  Texture
	roughness Texture
	remap     bool
}

// NewTranslucentMaterial creates a translucent material
func NewTranslucentMaterial(cfg TranslucentConfig) (*TranslucentMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"Kd", cfg.KD},
		namedTexture{"Ks", cfg.KS},
		namedTexture{"reflect", cfg.Reflect},
		namedTexture{"transmit", cfg.Transmit},
		namedTexture{"roughness", cfg.Roughness},
	); err != nil {
		return nil, err
	}
	return &TranslucentMaterial{
		surface:   s,
		kd:        cfg.KD,
		ks:        cfg.KS,
		reflect:   cfg.Reflect,
		transmit:  cfg.Transmit,
		roughness: cfg.Roughness,
		remap:     cfg.RemapRoughness,
	}, nil
}

func (m *TranslucentMaterial) Type() Type { return TypeTranslucent }

func (m *TranslucentMaterial) Children() []Node {
	return m.nodes(m.kd, m.ks, m.reflect, m.transmit, m.roughness)
}

func (m *TranslucentMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	r := sampleColor(m.reflect, si)
	t := sampleColor(m.transmit, si)
	if r.IsBlack() && t.IsBlack() {
		return newBSDF(si, translucentEta)
	}

	var lobes []bxdf.BXDF
	kd := sampleColor(m.kd, si)
	if kdr := kd.MultiplyVec(r); !kdr.IsBlack() {
		lobes = append(lobes, bxdf.NewLambertianBRDF(kdr))
	}
	if kdt := kd.MultiplyVec(t); !kdt.IsBlack() {
		lobes = append(lobes, bxdf.NewLambertianBTDF(kdt))
	}

	ks := sampleColor(m.ks, si)
	ksr, kst := ks.MultiplyVec(r), ks.MultiplyVec(t)
	if ksr.IsBlack() && kst.IsBlack() {
		return newBSDF(si, translucentEta, lobes...)
	}

	rough := sampleRoughness(m.roughness, si)
	isSpecular := rough == 0
	var distribution bxdf.TrowbridgeReitz
	if !isSpecular {
		alpha, _ := microfacetAlphas(rough, rough, m.remap)
		distribution = bxdf.NewTrowbridgeReitz(alpha, alpha)
	}

	if !ksr.IsBlack() {
		fresnel := bxdf.NewDielectricFresnel(1, translucentEta)
		if isSpecular {
			lobes = append(lobes, bxdf.NewSpecularBRDF(ksr, fresnel))
		} else {
			lobes = append(lobes, bxdf.NewTorranceSparrowBRDF(ksr, distribution, fresnel))
		}
	}
	if !kst.IsBlack() {
		if isSpecular {
			lobes = append(lobes, bxdf.NewSpecularBTDF(kst, 1, translucentEta, mode))
		} else {
			lobes = append(lobes, bxdf.NewTorranceSparrowBTDF(kst, distribution, 1, translucentEta, mode))
		}
	}
	return newBSDF(si, translucentEta, lobes...)
}
