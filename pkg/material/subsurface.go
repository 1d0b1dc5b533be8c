package material

import (
	"github.com/df07/go-scattering/pkg/bssrdf"
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// SubsurfaceConfig describes a translucent medium by its scattering
// coefficients. Eta and G are fixed because they shape the profile table.
type SubsurfaceConfig struct {
	Name           string
	Scale          float64 // Multiplies SigmaA and SigmaS, e.g. for unit conversion
	Eta            float64
	G              float64 // Henyey-Greenstein asymmetry
	SigmaA         Texture
	SigmaS         Texture
	KR             Texture
	KT             Texture
	RoughnessU     Texture
	RoughnessV     Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
	Logger         core.Logger
}

// DefaultSubsurfaceConfig returns coefficients of a marble-like medium in mm^-1
func DefaultSubsurfaceConfig() SubsurfaceConfig {
	return SubsurfaceConfig{
		Name:           "subsurface",
		Scale:          1,
		Eta:            1.33,
		G:              0,
		SigmaA:         NewConstantTexture(core.NewVec3(.0011, .0024, .014)),
		SigmaS:         NewConstantTexture(core.NewVec3(2.55, 3.21, 3.77)),
		KR:             NewConstantTexture(core.White),
		KT:             NewConstantTexture(core.White),
		RoughnessU:     NewConstantFloatTexture(0),
		RoughnessV:     NewConstantFloatTexture(0),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// SubsurfaceMaterial has a dielectric boundary over a scattering medium
type SubsurfaceMaterial struct {
	surface
	scale      float64
	eta        float64
	sigmaA     Texture
	sigmaS     Texture
	kr         Texture
	kt         Texture
	roughnessU Texture
	roughnessV Texture
	remap      bool
	table      *bssrdf.Table
}

// NewSubsurfaceMaterial creates a subsurface material and computes its profile table
func NewSubsurfaceMaterial(cfg SubsurfaceConfig) (*SubsurfaceMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"sigma_a", cfg.SigmaA},
		namedTexture{"sigma_s", cfg.SigmaS},
		namedTexture{"Kr", cfg.KR},
		namedTexture{"Kt", cfg.KT},
		namedTexture{"uroughness", cfg.RoughnessU},
		namedTexture{"vroughness", cfg.RoughnessV},
	); err != nil {
		return nil, err
	}

	table, err := buildTable(cfg.Logger, cfg.Name, cfg.G, cfg.Eta)
	if err != nil {
		return nil, err
	}
	return &SubsurfaceMaterial{
		surface:    s,
		scale:      cfg.Scale,
		eta:        cfg.Eta,
		sigmaA:     cfg.SigmaA,
		sigmaS:     cfg.SigmaS,
		kr:         cfg.KR,
		kt:         cfg.KT,
		roughnessU: cfg.RoughnessU,
		roughnessV: cfg.RoughnessV,
		remap:      cfg.RemapRoughness,
		table:      table,
	}, nil
}

func (m *SubsurfaceMaterial) Type() Type { return TypeSubsurface }

func (m *SubsurfaceMaterial) Children() []Node {
	return m.nodes(m.sigmaA, m.sigmaS, m.kr, m.kt, m.roughnessU, m.roughnessV)
}

// Table returns the material's profile table
func (m *SubsurfaceMaterial) Table() *bssrdf.Table { return m.table }

func (m *SubsurfaceMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	boundary := dielectric{
		r:      sampleColor(m.kr, si),
		t:      sampleColor(m.kt, si),
		eta:    m.eta,
		uRough: sampleRoughness(m.roughnessU, si),
		vRough: sampleRoughness(m.roughnessV, si),
		remap:  m.remap,
	}
	sf := newBSDF(si, m.eta, boundary.lobes(mode, allowMultipleLobes)...)
	if boundary.r.IsBlack() && boundary.t.IsBlack() {
		return sf
	}

	sf.BSSRDF = newTabulated(si, mode, m.eta, m.table,
		sampleColor(m.sigmaA, si).Multiply(m.scale),
		sampleColor(m.sigmaS, si).Multiply(m.scale))
	return sf
}

func newTabulated(si *SurfaceInteraction, mode bxdf.TransportMode, eta float64, table *bssrdf.Table, sigmaA, sigmaS core.Vec3) *bssrdf.Tabulated {
	return bssrdf.NewTabulated(bssrdf.TabulatedConfig{
		Point:  si.Point,
		Frame:  si.Shading,
		Wo:     si.Wo,
		Eta:    eta,
		Mode:   mode,
		SigmaA: sigmaA,
		SigmaS: sigmaS,
		Table:  table,
	})
}

// KDSubsurfaceConfig describes a translucent medium by its diffuse
// reflectance and mean free path
type KDSubsurfaceConfig struct {
	Name           string
	Scale          float64 // Multiplies the mean free path
	Eta            float64
	G              float64
	KD             Texture // Effective diffuse reflectance
	MeanFreePath   Texture
	KR             Texture
	KT             Texture
	RoughnessU     Texture
	RoughnessV     Texture
	RemapRoughness bool
	Modifier       Modifier
	Emission       Texture
	Logger         core.Logger
}

// DefaultKDSubsurfaceConfig returns a gray medium with unit mean free path
func DefaultKDSubsurfaceConfig() KDSubsurfaceConfig {
	return KDSubsurfaceConfig{
		Name:           "kdsubsurface",
		Scale:          1,
		Eta:            1.33,
		G:              0,
		KD:             NewConstantTexture(core.NewGray(0.5)),
		MeanFreePath:   NewConstantTexture(core.White),
		KR:             NewConstantTexture(core.White),
		KT:             NewConstantTexture(core.White),
		RoughnessU:     NewConstantFloatTexture(0),
		RoughnessV:     NewConstantFloatTexture(0),
		RemapRoughness: true,
		Modifier:       NoOpModifier{},
		Emission:       NewConstantTexture(core.Vec3{}),
	}
}

// KDSubsurfaceMaterial inverts the profile table to find the coefficients
// that produce the requested diffuse color
type KDSubsurfaceMaterial struct {
	surface
	scale        float64
	eta          float64
	kd           Texture
	meanFreePath Texture
	kr           Texture
	kt           Texture
	roughnessU   Texture
	roughnessV   Texture
	remap        bool
	table        *bssrdf.Table
}

// NewKDSubsurfaceMaterial creates a diffuse-parameterized subsurface material
func NewKDSubsurfaceMaterial(cfg KDSubsurfaceConfig) (*KDSubsurfaceMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"Kd", cfg.KD},
		namedTexture{"mfp", cfg.MeanFreePath},
		namedTexture{"Kr", cfg.KR},
		namedTexture{"Kt", cfg.KT},
		namedTexture{"uroughness", cfg.RoughnessU},
		namedTexture{"vroughness", cfg.RoughnessV},
	); err != nil {
		return nil, err
	}

	table, err := buildTable(cfg.Logger, cfg.Name, cfg.G, cfg.Eta)
	if err != nil {
		return nil, err
	}
	return &KDSubsurfaceMaterial{
		surface:      s,
		scale:        cfg.Scale,
		eta:          cfg.Eta,
		kd:           cfg.KD,
		meanFreePath: cfg.MeanFreePath,
		kr:           cfg.KR,
		kt:           cfg.KT,
		roughnessU:   cfg.RoughnessU,
		roughnessV:   cfg.RoughnessV,
		remap:        cfg.RemapRoughness,
		table:        table,
	}, nil
}

func (m *KDSubsurfaceMaterial) Type() Type { return TypeKDSubsurface }

func (m *KDSubsurfaceMaterial) Children() []Node {
	return m.nodes(m.kd, m.meanFreePath, m.kr, m.kt, m.roughnessU, m.roughnessV)
}

// Table returns the material's profile table
func (m *KDSubsurfaceMaterial) Table() *bssrdf.Table { return m.table }

func (m *KDSubsurfaceMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	boundary := dielectric{
		r:      sampleColor(m.kr, si),
		t:      sampleColor(m.kt, si),
		eta:    m.eta,
		uRough: sampleRoughness(m.roughnessU, si),
		vRough: sampleRoughness(m.roughnessV, si),
		remap:  m.remap,
	}
	sf := newBSDF(si, m.eta, boundary.lobes(mode, allowMultipleLobes)...)
	if boundary.r.IsBlack() && boundary.t.IsBlack() {
		return sf
	}

	mfp := sampleColor(m.meanFreePath, si).Multiply(m.scale)
	sigmaA, sigmaS := bssrdf.SubsurfaceFromDiffuse(m.table, sampleColor(m.kd, si).Clamp(0, 1), mfp)
	sf.BSSRDF = newTabulated(si, mode, m.eta, m.table, sigmaA, sigmaS)
	return sf
}
