package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// MatteConfig describes a purely diffuse surface
type MatteConfig struct {
	Name     string
	KD       Texture // Diffuse reflectance
	Sigma    Texture // Oren-Nayar slope deviation in degrees; 0 is Lambertian
	Modifier Modifier
	Emission Texture
}

// DefaultMatteConfig returns a 50% gray Lambertian surface
func DefaultMatteConfig() MatteConfig {
	return MatteConfig{
		Name:     "matte",
		KD:       NewConstantTexture(core.NewGray(0.5)),
		Sigma:    NewConstantFloatTexture(0),
		Modifier: NoOpModifier{},
		Emission: NewConstantTexture(core.Vec3{}),
	}
}

// MatteMaterial is a diffuse material with optional Oren-Nayar roughness
type MatteMaterial struct {
	surface
	kd    Texture
	sigma Texture
}

// NewMatteMaterial creates a matte material
func NewMatteMaterial(cfg MatteConfig) (*MatteMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(namedTexture{"Kd", cfg.KD}, namedTexture{"sigma", cfg.Sigma}); err != nil {
		return nil, err
	}
	return &MatteMaterial{surface: s, kd: cfg.KD, sigma: cfg.Sigma}, nil
}

func (m *MatteMaterial) Type() Type { return TypeMatte }

func (m *MatteMaterial) Children() []Node { return m.nodes(m.kd, m.sigma) }

func (m *MatteMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	r := sampleColor(m.kd, si)
	if r.IsBlack() {
		return newBSDF(si, 1)
	}

	sigma := core.Clamp(m.sigma.EvaluateFloat(si), 0, 90)
	if sigma == 0 {
		return newBSDF(si, 1, bxdf.NewLambertianBRDF(r))
	}
	return newBSDF(si, 1, bxdf.NewOrenNayarBRDF(r, sigma))
}
