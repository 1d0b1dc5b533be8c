// Package scene builds named materials and textures from material library files.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/loaders"
	"github.com/df07/go-scattering/pkg/material"
)

var (
	// ErrUnknownTexture is returned when a parameter references an undefined texture
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrUnsupported is returned for material kinds and texture classes we cannot build
	ErrUnsupported = errors.New("unsupported")
)

// Library is a set of constructed materials, addressable by name
type Library struct {
	Textures  map[string]material.Texture
	Materials map[string]material.Material
	order     []string
	baseDir   string
	logger    core.Logger
}

// NewLibrary creates an empty library. Relative file names in statements are
// resolved against baseDir.
func NewLibrary(baseDir string, logger core.Logger) *Library {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Library{
		Textures:  make(map[string]material.Texture),
		Materials: make(map[string]material.Material),
		baseDir:   baseDir,
		logger:    logger,
	}
}

// LoadLibrary parses a library file and constructs every material it defines
func LoadLibrary(filename string, logger core.Logger) (*Library, error) {
	parsed, err := loaders.LoadPBRTLibrary(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load material library: %w", err)
	}

	lib := NewLibrary(filepath.Dir(filename), logger)
	if err := lib.Add(parsed.Statements...); err != nil {
		return nil, err
	}
	return lib, nil
}

// Add constructs the textures and materials of statements in order. Later
// definitions replace earlier ones with the same name.
func (l *Library) Add(statements ...loaders.PBRTStatement) error {
	for i := range statements {
		stmt := &statements[i]
		if err := l.add(stmt); err != nil {
			return fmt.Errorf("line %d: '%s': %w", stmt.Line, stmt.Text, err)
		}
	}
	return nil
}

func (l *Library) add(stmt *loaders.PBRTStatement) error {
	switch stmt.Type {
	case loaders.StatementTexture:
		tex, err := l.convertTexture(stmt)
		if err != nil {
			return err
		}
		if _, exists := l.Textures[stmt.Name]; exists {
			l.logger.Printf("Warning: texture %q redefined\n", stmt.Name)
		}
		l.Textures[stmt.Name] = tex

	case loaders.StatementMakeNamedMaterial, loaders.StatementMaterial:
		name := stmt.Name
		if name == "" {
			// Anonymous materials are named after their kind and position
			name = fmt.Sprintf("%s@%d", stmt.Subtype, stmt.Line)
		}
		mat, err := l.convertMaterial(name, stmt)
		if err != nil {
			return err
		}
		if _, exists := l.Materials[name]; exists {
			l.logger.Printf("Warning: material %q redefined\n", name)
		} else {
			l.order = append(l.order, name)
		}
		l.Materials[name] = mat

	default:
		return fmt.Errorf("%w statement %s", ErrUnsupported, stmt.Type)
	}
	return nil
}

// Material returns the named material
func (l *Library) Material(name string) (material.Material, bool) {
	mat, ok := l.Materials[name]
	return mat, ok
}

// Names returns material names in definition order
func (l *Library) Names() []string {
	return append([]string(nil), l.order...)
}

// resolve makes a relative file name relative to the library file
func (l *Library) resolve(filename string) string {
	if filename == "" || filepath.IsAbs(filename) || l.baseDir == "" {
		return filename
	}
	return filepath.Join(l.baseDir, filename)
}

// convertTexture converts a Texture statement
func (l *Library) convertTexture(stmt *loaders.PBRTStatement) (material.Texture, error) {
	p := params{stmt: stmt, lib: l}

	switch stmt.Subtype {
	case "constant":
		if stmt.ValueType == "float" {
			return p.float("value", 1)
		}
		return p.spectrum("value", core.White)

	case "checkerboard":
		even, err := p.texture("tex1", material.NewConstantTexture(core.White), stmt.ValueType)
		if err != nil {
			return nil, err
		}
		odd, err := p.texture("tex2", material.NewConstantTexture(core.Vec3{}), stmt.ValueType)
		if err != nil {
			return nil, err
		}
		return material.NewCheckerboardTexture(even, odd, p.scalar("uscale", 1), p.scalar("vscale", 1))

	case "mix":
		a, err := p.texture("tex1", material.NewConstantTexture(core.Vec3{}), stmt.ValueType)
		if err != nil {
			return nil, err
		}
		b, err := p.texture("tex2", material.NewConstantTexture(core.White), stmt.ValueType)
		if err != nil {
			return nil, err
		}
		amount, err := p.float("amount", 0.5)
		if err != nil {
			return nil, err
		}
		return material.NewBlendTexture(a, b, amount)

	case "imagemap":
		filename, ok := stmt.GetStringParam("filename")
		if !ok {
			return nil, fmt.Errorf("imagemap texture %q has no filename", stmt.Name)
		}
		return material.LoadImageTexture(l.resolve(filename), p.flag("gamma", false))

	case "uv":
		return material.UVTexture{}, nil

	default:
		return nil, fmt.Errorf("%w texture class %q", ErrUnsupported, stmt.Subtype)
	}
}

// convertMaterial converts a material statement to our material system
func (l *Library) convertMaterial(name string, stmt *loaders.PBRTStatement) (material.Material, error) {
	kind, ok := material.ParseType(stmt.Subtype)
	if !ok && stmt.Subtype == "disney" {
		kind, ok = material.TypePrincipled, true
	}
	if !ok {
		return nil, fmt.Errorf("%w material type %q", ErrUnsupported, stmt.Subtype)
	}

	p := params{stmt: stmt, lib: l}
	modifier, emission, err := p.surface()
	if err != nil {
		return nil, err
	}

	switch kind {
	case material.TypeMatte:
		cfg := material.DefaultMatteConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		if err := p.all(
			p.spectrumInto(&cfg.KD, "Kd"),
			p.floatInto(&cfg.Sigma, "sigma"),
		); err != nil {
			return nil, err
		}
		return material.NewMatteMaterial(cfg)

	case material.TypeGlossy:
		cfg := material.DefaultGlossyConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.KR, "Kr"),
			p.floatInto(&cfg.Roughness, "roughness"),
		); err != nil {
			return nil, err
		}
		return material.NewGlossyMaterial(cfg)

	case material.TypeMetal:
		cfg := material.DefaultMetalConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.Eta, "eta"),
			p.spectrumInto(&cfg.K, "k"),
			p.roughnessInto(&cfg.RoughnessU, &cfg.RoughnessV),
		); err != nil {
			return nil, err
		}
		return material.NewMetalMaterial(cfg)

	case material.TypeMirror:
		cfg := material.DefaultMirrorConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		if err := p.spectrumInto(&cfg.KR, "Kr")(); err != nil {
			return nil, err
		}
		return material.NewMirrorMaterial(cfg)

	case material.TypePlastic:
		cfg := material.DefaultPlasticConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.KD, "Kd"),
			p.spectrumInto(&cfg.KS, "Ks"),
			p.floatInto(&cfg.Roughness, "roughness"),
		); err != nil {
			return nil, err
		}
		return material.NewPlasticMaterial(cfg)

	case material.TypeGlass:
		cfg := material.DefaultGlassConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		etaParam := "eta"
		if _, ok := stmt.Parameters["index"]; ok {
			etaParam = "index"
		}
		if err := p.all(
			p.spectrumInto(&cfg.KR, "Kr"),
			p.spectrumInto(&cfg.KT, "Kt"),
			p.floatInto(&cfg.Eta, etaParam),
			p.roughnessInto(&cfg.RoughnessU, &cfg.RoughnessV),
		); err != nil {
			return nil, err
		}
		return material.NewGlassMaterial(cfg)

	case material.TypeTranslucent:
		cfg := material.DefaultTranslucentConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.KD, "Kd"),
			p.spectrumInto(&cfg.KS, "Ks"),
			p.spectrumInto(&cfg.Reflect, "reflect"),
			p.spectrumInto(&cfg.Transmit, "transmit"),
			p.floatInto(&cfg.Roughness, "roughness"),
		); err != nil {
			return nil, err
		}
		return material.NewTranslucentMaterial(cfg)

	case material.TypePrincipled:
		cfg := material.DefaultPrincipledConfig()
		cfg.Name, cfg.Modifier, cfg.Emission, cfg.Logger = name, modifier, emission, l.logger
		cfg.Thin = p.flag("thin", false)
		if err := p.all(
			p.spectrumInto(&cfg.Color, "color"),
			p.floatInto(&cfg.Metallic, "metallic"),
			p.floatInto(&cfg.Eta, "eta"),
			p.floatInto(&cfg.Roughness, "roughness"),
			p.floatInto(&cfg.SpecularTint, "speculartint"),
			p.floatInto(&cfg.Anisotropic, "anisotropic"),
			p.floatInto(&cfg.Sheen, "sheen"),
			p.floatInto(&cfg.SheenTint, "sheentint"),
			p.floatInto(&cfg.Clearcoat, "clearcoat"),
			p.floatInto(&cfg.ClearcoatGloss, "clearcoatgloss"),
			p.floatInto(&cfg.SpecularTransmission, "spectrans"),
			p.spectrumInto(&cfg.ScatterDistance, "scatterdistance"),
			p.floatInto(&cfg.Flatness, "flatness"),
			p.floatInto(&cfg.DiffuseTransmission, "difftrans"),
		); err != nil {
			return nil, err
		}
		return material.NewPrincipledMaterial(cfg)

	case material.TypeHair:
		cfg := material.DefaultHairConfig()
		cfg.Name, cfg.Modifier, cfg.Emission = name, modifier, emission
		if err := p.all(
			p.spectrumInto(&cfg.SigmaA, "sigma_a"),
			p.spectrumInto(&cfg.Color, "color"),
			p.floatInto(&cfg.Eumelanin, "eumelanin"),
			p.floatInto(&cfg.Pheomelanin, "pheomelanin"),
			p.floatInto(&cfg.Eta, "eta"),
			p.floatInto(&cfg.BetaM, "beta_m"),
			p.floatInto(&cfg.BetaN, "beta_n"),
			p.floatInto(&cfg.Alpha, "alpha"),
		); err != nil {
			return nil, err
		}
		return material.NewHairMaterial(cfg)

	case material.TypeFourier:
		cfg := material.DefaultFourierConfig()
		cfg.Name, cfg.Modifier, cfg.Emission, cfg.Logger = name, modifier, emission, l.logger
		if filename, ok := stmt.GetStringParam("bsdffile"); ok {
			cfg.Filename = l.resolve(filename)
		}
		return material.NewFourierMaterial(cfg)

	case material.TypeSubsurface:
		cfg := material.DefaultSubsurfaceConfig()
		cfg.Name, cfg.Modifier, cfg.Emission, cfg.Logger = name, modifier, emission, l.logger
		cfg.Scale = p.scalar("scale", cfg.Scale)
		cfg.Eta = p.scalar("eta", cfg.Eta)
		cfg.G = p.scalar("g", cfg.G)
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.SigmaA, "sigma_a"),
			p.spectrumInto(&cfg.SigmaS, "sigma_s"),
			p.spectrumInto(&cfg.KR, "Kr"),
			p.spectrumInto(&cfg.KT, "Kt"),
			p.roughnessInto(&cfg.RoughnessU, &cfg.RoughnessV),
		); err != nil {
			return nil, err
		}
		return material.NewSubsurfaceMaterial(cfg)

	case material.TypeKDSubsurface:
		cfg := material.DefaultKDSubsurfaceConfig()
		cfg.Name, cfg.Modifier, cfg.Emission, cfg.Logger = name, modifier, emission, l.logger
		cfg.Scale = p.scalar("scale", cfg.Scale)
		cfg.Eta = p.scalar("eta", cfg.Eta)
		cfg.G = p.scalar("g", cfg.G)
		cfg.RemapRoughness = p.flag("remaproughness", cfg.RemapRoughness)
		if err := p.all(
			p.spectrumInto(&cfg.KD, "Kd"),
			p.spectrumInto(&cfg.MeanFreePath, "mfp"),
			p.spectrumInto(&cfg.KR, "Kr"),
			p.spectrumInto(&cfg.KT, "Kt"),
			p.roughnessInto(&cfg.RoughnessU, &cfg.RoughnessV),
		); err != nil {
			return nil, err
		}
		return material.NewKDSubsurfaceMaterial(cfg)
	}
	return nil, fmt.Errorf("%w material type %q", ErrUnsupported, stmt.Subtype)
}
