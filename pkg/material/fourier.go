package material

import (
	"fmt"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/loaders"
)

// FourierConfig describes a measured BSDF stored as a Fourier table
type FourierConfig struct {
	Name     string
	Filename string             // Table file, read by the constructor
	Table    *bxdf.FourierTable // Preloaded table; takes precedence over Filename
	Modifier Modifier
	Emission Texture
	Logger   core.Logger
}

// DefaultFourierConfig returns a config without a table source
func DefaultFourierConfig() FourierConfig {
	return FourierConfig{
		Name:     "fourier",
		Modifier: NoOpModifier{},
		Emission: NewConstantTexture(core.Vec3{}),
	}
}

// FourierMaterial evaluates a tabulated BSDF shared by every intersection
type FourierMaterial struct {
	surface
	table *bxdf.FourierTable
}

// NewFourierMaterial creates a Fourier material, loading its table if needed
func NewFourierMaterial(cfg FourierConfig) (*FourierMaterial, error) {
	s, err := newSurface(cfg.Name, cfg.Modifier, cfg.Emission)
	if err != nil {
		return nil, err
	}

	table := cfg.Table
	if table == nil {
		if cfg.Filename == "" {
			return nil, missing(ErrMissingTable, "bsdffile")
		}
		table, err = loaders.LoadFourierTable(cfg.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create fourier material %q: %w", cfg.Name, err)
		}
		logger := cfg.Logger
		if logger == nil {
			logger = core.NopLogger{}
		}
		logger.Printf("Loaded Fourier BSDF %s: %d elevations, %d channels, eta %.3f\n",
			cfg.Filename, table.NMu(), table.NChannels, table.Eta)
	}
	return &FourierMaterial{surface: s, table: table}, nil
}

func (m *FourierMaterial) Type() Type { return TypeFourier }

func (m *FourierMaterial) Children() []Node { return m.nodes() }

// Table returns the shared table
func (m *FourierMaterial) Table() *bxdf.FourierTable { return m.table }

func (m *FourierMaterial) ComputeScatteringFunctions(si *SurfaceInteraction, mode bxdf.TransportMode, allowMultipleLobes bool) ScatteringFunctions {
	m.prepare(si)
	if m.table.NMu() == 0 {
		return newBSDF(si, 1)
	}
	return newBSDF(si, 1, bxdf.NewFourierBXDF(m.table, mode))
}
