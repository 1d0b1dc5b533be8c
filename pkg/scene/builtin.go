package scene

import (
	"fmt"
	"strings"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/loaders"
	"github.com/df07/go-scattering/pkg/material"
)

// builtinMaterials covers every material kind, with the Cornell box palette
// for the diffuse entries
const builtinMaterials = `# Library: Built-in Materials
# Description: One material of every kind
# Group: Built-in

Texture "checks" "spectrum" "checkerboard"
    "rgb tex1" [0.73 0.73 0.73] "rgb tex2" [0.12 0.45 0.15]
    "float uscale" 8 "float vscale" 8

MakeNamedMaterial "white" "string type" "matte" "rgb Kd" [0.73 0.73 0.73]
MakeNamedMaterial "red" "string type" "matte" "rgb Kd" [0.65 0.05 0.05] "float sigma" 20
MakeNamedMaterial "floor" "string type" "matte" "texture Kd" "checks"
MakeNamedMaterial "satin" "string type" "glossy" "rgb Kr" [0.8 0.6 0.2] "float roughness" 0.3
MakeNamedMaterial "copper" "string type" "metal" "float roughness" 0.05
MakeNamedMaterial "mirror" "string type" "mirror" "rgb Kr" [0.9 0.9 0.9]
MakeNamedMaterial "plastic" "string type" "plastic"
    "rgb Kd" [0.1 0.2 0.5] "rgb Ks" [0.25 0.25 0.25] "float roughness" 0.1
MakeNamedMaterial "glass" "string type" "glass" "float eta" 1.5
MakeNamedMaterial "frosted" "string type" "glass" "float eta" 1.5 "float roughness" 0.2
MakeNamedMaterial "paper" "string type" "translucent"
    "rgb Kd" [0.8 0.8 0.7] "rgb Ks" [0.1 0.1 0.1] "rgb reflect" 0.6 "rgb transmit" 0.4
MakeNamedMaterial "car-paint" "string type" "disney"
    "rgb color" [0.6 0.05 0.05] "float roughness" 0.3 "float clearcoat" 1 "float sheen" 0.2
MakeNamedMaterial "gold" "string type" "disney"
    "rgb color" [1 0.78 0.34] "float metallic" 1 "float roughness" 0.2 "float anisotropic" 0.5
MakeNamedMaterial "leaf" "string type" "disney"
    "rgb color" [0.2 0.5 0.1] "bool thin" "true" "float difftrans" 0.6 "float flatness" 0.5
MakeNamedMaterial "wax" "string type" "disney"
    "rgb color" [0.9 0.8 0.6] "rgb scatterdistance" [0.5 0.3 0.2]
MakeNamedMaterial "brown-hair" "string type" "hair" "float eumelanin" 1.3
MakeNamedMaterial "dyed-hair" "string type" "hair" "rgb color" [0.5 0.1 0.2]
MakeNamedMaterial "marble" "string type" "subsurface" "float scale" 10
MakeNamedMaterial "skin" "string type" "kdsubsurface"
    "rgb Kd" [0.8 0.5 0.4] "rgb mfp" [1.2 0.6 0.3]
`

// BuiltinFourierName names the Fourier entry of the built-in library, which
// uses a uniform table in place of a measured file
const BuiltinFourierName = "uniform-fourier"

// NewBuiltinLibrary creates a library with one or more materials of every kind
func NewBuiltinLibrary(logger core.Logger) (*Library, error) {
	parsed, err := loaders.ParsePBRTLibrary(strings.NewReader(builtinMaterials))
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in materials: %w", err)
	}

	lib := NewLibrary("", logger)
	if err := lib.Add(parsed.Statements...); err != nil {
		return nil, fmt.Errorf("failed to build built-in materials: %w", err)
	}

	cfg := material.DefaultFourierConfig()
	cfg.Name = BuiltinFourierName
	// Directional albedo of 4*pi*0.07, independent of direction
	cfg.Table = bxdf.NewUniformFourierTable(0.07, 16)
	fourier, err := material.NewFourierMaterial(cfg)
	if err != nil {
		return nil, err
	}
	lib.Set(BuiltinFourierName, fourier)
	return lib, nil
}

// Set adds or replaces a material constructed outside a library file
func (l *Library) Set(name string, mat material.Material) {
	if _, exists := l.Materials[name]; !exists {
		l.order = append(l.order, name)
	}
	l.Materials[name] = mat
}
