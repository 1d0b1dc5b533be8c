package material

import (
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// HairConfig describes hair fibers. Absorption comes from SigmaA when set,
// otherwise from Color, otherwise from the melanin concentrations.
type HairConfig struct {
	Name        string
	SigmaA      Texture // Optional absorption coefficient
	Color       Texture // Optional target reflectance
	Eumelanin   Texture
	Pheomelanin Texture
	Eta         Texture
	BetaM       Texture // Longitudinal roughness
	BetaN       Texture // Azimuthal roughness
	Alpha       Texture // Cuticle scale tilt in degrees
	Modifier    Modifier
	Emission    Texture
}

// DefaultHairConfig returns brown hair
func DefaultHairConfig() HairConfig {
	return HairConfig{
		Name:        "hair",
		Eumelanin:   NewConstantFloatTexture(1.3),
		Pheomelanin: NewConstantFloatTexture(0),
		Eta:         NewConstantFloatTexture(1.55),
		BetaM:       NewConstantFloatTexture(0.3),
		BetaN:       NewConstantFloatTexture(0.3),
		Alpha:       NewConstantFloatTexture(2),
		Modifier:    NoOpModifier{},
		Emission:    NewConstantTexture(core.Vec3{}),
	}
}

// HairMaterial scatters light with the Chiang hair model. The surface V
// coordinate maps to the offset across the fiber.
type HairMaterial struct {
	surface
	sigmaA      Texture
	color       Texture
	eumelanin   Texture
	pheomelanin Texture
	eta         Texture
	betaM       Texture
	betaN       Texture
	alpha       Texture
}

// NewHairMaterial creates a hair material
func NewHairMaterial(cfg HairConfig) (*HairMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	required := []namedTexture{
		{"eta", cfg.Eta},
		{"beta_m", cfg.BetaM},
		{"beta_n", cfg.BetaN},
		{"alpha", cfg.Alpha},
	}
	if cfg.SigmaA == nil && cfg.Color == nil {
		required = append(required, namedTexture{"eumelanin", cfg.Eumelanin}, namedTexture{"pheomelanin", cfg.Pheomelanin})
	}
	if err := checkTextures(required...); err != nil {
		return nil, err
	}
	return &HairMaterial{
		surface:     s,
		sigmaA:      cfg.SigmaA,
		color:       cfg.Color,
		eumelanin:   cfg.Eumelanin,
		pheomelanin: cfg.Pheomelanin,
		eta:         cfg.Eta,
		betaM:       cfg.BetaM,
		betaN:       cfg.BetaN,
		alpha:       cfg.Alpha,
	}, nil
}

func (m *HairMaterial) Type() Type { return TypeHair }

func (m *HairMaterial) Children() []Node {
	return m.nodes(m.sigmaA, m.color, m.eumelanin, m.pheomelanin, m.eta, m.betaM, m.betaN, m.alpha)
}

func (m *HairMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	betaM := sampleUnit(m.betaM, si)
	betaN := sampleUnit(m.betaN, si)
	eta := m.eta.EvaluateFloat(si)

	var sigmaA core.Vec3
	switch {
	case m.sigmaA != nil:
		sigmaA = sampleColor(m.sigmaA, si)
	case m.color != nil:
		sigmaA = bxdf.SigmaAFromReflectance(sampleColor(m.color, si), betaN)
	default:
		sigmaA = bxdf.SigmaAFromConcentration(
			max(0, m.eumelanin.EvaluateFloat(si)),
			max(0, m.pheomelanin.EvaluateFloat(si)))
	}

	h := -1 + 2*si.UV.Y
	return newBSDF(si, eta, bxdf.NewHairBXDF(h, eta, sigmaA, betaM, betaN, m.alpha.EvaluateFloat(si)))
}
