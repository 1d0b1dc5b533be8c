package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// MirrorConfig describes a perfect specular reflector
type MirrorConfig struct {
	Name     string
	KR       Texture
	Modifier Modifier
	Emission Texture
}

// DefaultMirrorConfig returns a perfect white mirror
func DefaultMirrorConfig() MirrorConfig {
	return MirrorConfig{
		Name:     "mirror",
		KR:       NewConstantTexture(core.White),
		Modifier: NoOpModifier{},
		Emission: NewConstantTexture(core.Vec3{}),
	}
}

// MirrorMaterial reflects KR of the light in the mirror direction
type MirrorMaterial struct {
	surface
	kr Texture
}

// NewMirrorMaterial creates a mirror material
func NewMirrorMaterial(cfg MirrorConfig) (*MirrorMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(namedTexture{"Kr", cfg.KR}); err != nil {
		return nil, err
	}
	return &MirrorMaterial{surface: s, kr: cfg.KR}, nil
}

func (m *MirrorMaterial) Type() Type { return TypeMirror }

func (m *MirrorMaterial) Children() []Node { return m.nodes(m.kr) }

func (m *MirrorMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	r := sampleColor(m.kr, si)
	if r.IsBlack() {
		return newBSDF(si, 1)
	}
	return newBSDF(si, 1, bxdf.NewSpecularBRDF(r, bxdf.NoOpFresnel{}))
}
