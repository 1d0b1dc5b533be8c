package material

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-scattering/pkg/bssrdf"
	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// PrincipledConfig holds the Disney principled parameters. Scalar parameters
// are clamped to [0, 1] when sampled, except Eta and DiffuseTransmission,
// which is clamped to [0, 2].
type PrincipledConfig struct {
	Name                 string
	Color                Texture
	Metallic             Texture
	Eta                  Texture // The subsurface table is built from the value at the default interaction
	Roughness            Texture
	SpecularTint         Texture
	Anisotropic          Texture
	Sheen                Texture
	SheenTint            Texture
	Clearcoat            Texture
	ClearcoatGloss       Texture
	SpecularTransmission Texture
	ScatterDistance      Texture // Mean free path; non-black enables subsurface scattering
	Flatness             Texture // Thin surfaces only
	DiffuseTransmission  Texture // Thin surfaces only
	Thin                 bool
	Modifier             Modifier
	Emission             Texture
	Logger               core.Logger
}

// DefaultPrincipledConfig returns a gray dielectric with medium roughness
func DefaultPrincipledConfig() PrincipledConfig {
	return PrincipledConfig{
		Name:                 "principled",
		Color:                NewConstantTexture(core.NewGray(0.5)),
		Metallic:             NewConstantFloatTexture(0),
		Eta:                  NewConstantFloatTexture(1.5),
		Roughness:            NewConstantFloatTexture(0.5),
		SpecularTint:         NewConstantFloatTexture(0),
		Anisotropic:          NewConstantFloatTexture(0),
		Sheen:                NewConstantFloatTexture(0),
		SheenTint:            NewConstantFloatTexture(0.5),
		Clearcoat:            NewConstantFloatTexture(0),
		ClearcoatGloss:       NewConstantFloatTexture(1),
		SpecularTransmission: NewConstantFloatTexture(0),
		ScatterDistance:      NewConstantTexture(core.Vec3{}),
		Flatness:             NewConstantFloatTexture(0),
		DiffuseTransmission:  NewConstantFloatTexture(1),
		Modifier:             NoOpModifier{},
		Emission:             NewConstantTexture(core.Vec3{}),
	}
}

// PrincipledMaterial is the Disney principled BSDF
type PrincipledMaterial struct {
	surface
	color                Texture
	metallic             Texture
	eta                  Texture
	roughness            Texture
	specularTint         Texture
	anisotropic          Texture
	sheen                Texture
	sheenTint            Texture
	clearcoat            Texture
	clearcoatGloss       Texture
	specularTransmission Texture
	scatterDistance      Texture
	flatness             Texture
	diffuseTransmission  Texture
	thin                 bool

	// Profile table for subsurface scattering, nil when ScatterDistance is black
	table *bssrdf.Table
}

// NewPrincipledMaterial creates a principled material. A scatter distance that
// is not known to be black makes the constructor compute a beam diffusion table.
func NewPrincipledMaterial(cfg PrincipledConfig) (*PrincipledMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}
	if err := checkTextures(
		namedTexture{"color", cfg.Color},
		namedTexture{"metallic", cfg.Metallic},
		namedTexture{"eta", cfg.Eta},
		namedTexture{"roughness", cfg.Roughness},
		namedTexture{"speculartint", cfg.SpecularTint},
		namedTexture{"anisotropic", cfg.Anisotropic},
		namedTexture{"sheen", cfg.Sheen},
		namedTexture{"sheentint", cfg.SheenTint},
		namedTexture{"clearcoat", cfg.Clearcoat},
		namedTexture{"clearcoatgloss", cfg.ClearcoatGloss},
		namedTexture{"spectrans", cfg.SpecularTransmission},
		namedTexture{"scatterdistance", cfg.ScatterDistance},
		namedTexture{"flatness", cfg.Flatness},
		namedTexture{"difftrans", cfg.DiffuseTransmission},
	); err != nil {
		return nil, err
	}

	m := &PrincipledMaterial{
		surface:              s,
		color:                cfg.Color,
		metallic:             cfg.Metallic,
		eta:                  cfg.Eta,
		roughness:            cfg.Roughness,
		specularTint:         cfg.SpecularTint,
		anisotropic:          cfg.Anisotropic,
		sheen:                cfg.Sheen,
		sheenTint:            cfg.SheenTint,
		clearcoat:            cfg.Clearcoat,
		clearcoatGloss:       cfg.ClearcoatGloss,
		specularTransmission: cfg.SpecularTransmission,
		scatterDistance:      cfg.ScatterDistance,
		flatness:             cfg.Flatness,
		diffuseTransmission:  cfg.DiffuseTransmission,
		thin:                 cfg.Thin,
	}

	if !cfg.Thin && !isBlackConstant(cfg.ScatterDistance) {
		// The table is fixed at construction, so it uses the index at the
		// default interaction
		eta := cfg.Eta.EvaluateFloat(&SurfaceInteraction{})
		m.table, err = buildTable(cfg.Logger, cfg.Name, 0, eta)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// buildTable computes a beam diffusion table at the default resolution
func buildTable(logger core.Logger, name string, g, eta float64) (*bssrdf.Table, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	start := time.Now()
	table, err := bssrdf.NewBeamDiffusionTable(g, eta, bssrdf.DefaultRhoSamples, bssrdf.DefaultRadiusSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to compute subsurface table for %q: %w", name, err)
	}
	logger.Printf("Computed subsurface table for %q (g=%.3f, eta=%.3f) in %v\n", name, g, eta, time.Since(start))
	return table, nil
}

func (m *PrincipledMaterial) Type() Type { return TypePrincipled }

func (m *PrincipledMaterial) Children() []Node {
	return m.nodes(m.color, m.metallic, m.eta, m.roughness, m.specularTint, m.anisotropic,
		m.sheen, m.sheenTint, m.clearcoat, m.clearcoatGloss, m.specularTransmission,
		m.scatterDistance, m.flatness, m.diffuseTransmission)
}

func (m *PrincipledMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)

	c := sampleColor(m.color, si)
	metallic := sampleUnit(m.metallic, si)
	eta := m.eta.EvaluateFloat(si)
	specTrans := sampleUnit(m.specularTransmission, si)
	rough := sampleUnit(m.roughness, si)
	diffuseWeight := (1 - metallic) * (1 - specTrans)
	dt := core.Clamp(m.diffuseTransmission.EvaluateFloat(si), 0, 2) / 2

	// Hue and saturation of the base color, normalized by luminance
	tint := core.White
	if lum := c.Luminance(); lum > 0 {
		tint = c.Multiply(1 / lum)
	}

	sheen := sampleUnit(m.sheen, si)
	var sheenColor core.Vec3
	if sheen > 0 {
		sheenColor = core.Lerp(sampleUnit(m.sheenTint, si), core.White, tint)
	}

	var lobes []bxdf.BXDF
	var sss *bssrdf.Tabulated
	if diffuseWeight > 0 {
		if m.thin {
			flat := sampleUnit(m.flatness, si)
			lobes = append(lobes,
				bxdf.NewDisneyDiffuse(c.Multiply(diffuseWeight*(1-flat)*(1-dt))),
				bxdf.NewDisneyFakeSS(c.Multiply(diffuseWeight*flat*(1-dt)), rough))
		} else {
			sd := sampleColor(m.scatterDistance, si)
			if sd.IsBlack() || m.table == nil {
				lobes = append(lobes, bxdf.NewDisneyDiffuse(c.Multiply(diffuseWeight)))
			} else {
				// Diffuse reflection is carried by the BSSRDF; light enters
				// through the smooth boundary
				lobes = append(lobes, bxdf.NewSpecularBTDF(core.White, 1, eta, mode))
				sigmaA, sigmaS := bssrdf.SubsurfaceFromDiffuse(m.table, c, sd)
				sss = newTabulated(si, mode, eta, m.table, sigmaA, sigmaS)
			}
		}

		lobes = append(lobes, bxdf.NewDisneyRetro(c.Multiply(diffuseWeight), rough))

		if sheen > 0 {
			lobes = append(lobes, bxdf.NewDisneySheen(sheenColor.Multiply(diffuseWeight*sheen)))
		}
	}

	aspect := math.Sqrt(1 - sampleUnit(m.anisotropic, si)*.9)
	alphaX := math.Max(.001, rough*rough/aspect)
	alphaY := math.Max(.001, rough*rough*aspect)
	distribution := bxdf.NewDisneyTrowbridgeReitz(alphaX, alphaY)

	specTint := sampleUnit(m.specularTint, si)
	r0 := core.Lerp(metallic, core.Lerp(specTint, core.White, tint).Multiply(bxdf.SchlickR0FromEta(eta)), c)
	lobes = append(lobes, bxdf.NewTorranceSparrowBRDF(core.White, distribution, bxdf.NewDisneyFresnel(r0, metallic, eta)))

	if cc := sampleUnit(m.clearcoat, si); cc > 0 {
		lobes = append(lobes, bxdf.NewDisneyClearCoat(cc, core.LerpFloat(sampleUnit(m.clearcoatGloss, si), .1, .001)))
	}

	if specTrans > 0 {
		t := c.Sqrt().Multiply(specTrans)
		if m.thin {
			// Roughness is scaled by the relative index for thin surfaces
			scaled := (0.65*eta - 0.35) * rough
			ax := math.Max(.001, scaled*scaled/aspect)
			ay := math.Max(.001, scaled*scaled*aspect)
			lobes = append(lobes, bxdf.NewTorranceSparrowBTDF(t, bxdf.NewTrowbridgeReitz(ax, ay), 1, eta, mode))
		} else {
			lobes = append(lobes, bxdf.NewTorranceSparrowBTDF(t, distribution, 1, eta, mode))
		}
	}

	if m.thin {
		lobes = append(lobes, bxdf.NewLambertianBTDF(c.Multiply(dt)))
	}

	sf := newBSDF(si, eta, lobes...)
	sf.BSSRDF = sss
	return sf
}
