package scene

import (
	"fmt"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/loaders"
	"github.com/df07/go-scattering/pkg/material"
)

// params reads statement parameters as textures, resolving texture
// references against the library
type params struct {
	stmt *loaders.PBRTStatement
	lib  *Library
}

// lookup returns the texture bound to a "texture" parameter, or nil when the
// parameter is not a texture reference
func (p params) lookup(name string) (material.Texture, error) {
	texName, ok := p.stmt.GetTextureParam(name)
	if !ok {
		return nil, nil
	}
	tex, ok := p.lib.Textures[texName]
	if !ok {
		return nil, fmt.Errorf("%w %q for parameter %s", ErrUnknownTexture, texName, name)
	}
	return tex, nil
}

// spectrum reads a color parameter or texture reference
func (p params) spectrum(name string, def core.Vec3) (material.Texture, error) {
	tex, err := p.lookup(name)
	if err != nil || tex != nil {
		return tex, err
	}
	if rgb, ok := p.stmt.GetRGBParam(name); ok {
		return material.NewConstantTexture(*rgb), nil
	}
	if _, ok := p.stmt.Parameters[name]; ok {
		return nil, fmt.Errorf("parameter %s is not a color", name)
	}
	return material.NewConstantTexture(def), nil
}

// float reads a float parameter or texture reference
func (p params) float(name string, def float64) (material.Texture, error) {
	tex, err := p.lookup(name)
	if err != nil || tex != nil {
		return tex, err
	}
	if v, ok := p.stmt.GetFloatParam(name); ok {
		return material.NewConstantFloatTexture(v), nil
	}
	if _, ok := p.stmt.Parameters[name]; ok {
		return nil, fmt.Errorf("parameter %s is not a float", name)
	}
	return material.NewConstantFloatTexture(def), nil
}

// texture reads a parameter of the given texture value type, or def when absent
func (p params) texture(name string, def material.Texture, valueType string) (material.Texture, error) {
	if _, ok := p.stmt.Parameters[name]; !ok {
		return def, nil
	}
	if valueType == "float" {
		return p.float(name, 0)
	}
	return p.spectrum(name, core.Vec3{})
}

// scalar reads a plain float parameter
func (p params) scalar(name string, def float64) float64 {
	if v, ok := p.stmt.GetFloatParam(name); ok {
		return v
	}
	return def
}

// flag reads a bool parameter
func (p params) flag(name string, def bool) bool {
	if v, ok := p.stmt.GetBoolParam(name); ok {
		return v
	}
	return def
}

// spectrumInto returns a setter that overwrites dst only when the parameter is present
func (p params) spectrumInto(dst *material.Texture, name string) func() error {
	return func() error {
		if _, ok := p.stmt.Parameters[name]; !ok {
			return nil
		}
		tex, err := p.spectrum(name, core.Vec3{})
		if err != nil {
			return err
		}
		*dst = tex
		return nil
	}
}

// floatInto is spectrumInto for float parameters
func (p params) floatInto(dst *material.Texture, name string) func() error {
	return func() error {
		if _, ok := p.stmt.Parameters[name]; !ok {
			return nil
		}
		tex, err := p.float(name, 0)
		if err != nil {
			return err
		}
		*dst = tex
		return nil
	}
}

// roughnessInto reads "roughness" into both directions, then the
// per-direction overrides
func (p params) roughnessInto(u, v *material.Texture) func() error {
	return func() error {
		return p.all(
			p.floatInto(u, "roughness"),
			p.floatInto(v, "roughness"),
			p.floatInto(u, "uroughness"),
			p.floatInto(v, "vroughness"),
		)
	}
}

// all runs setters in order and stops at the first error
func (p params) all(setters ...func() error) error {
	for _, set := range setters {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}

// surface reads the parameters shared by every material: an optional normal
// map texture and emitted radiance
func (p params) surface() (material.Modifier, material.Texture, error) {
	var modifier material.Modifier = material.NoOpModifier{}
	normalMap, err := p.lookup("normalmap")
	if err != nil {
		return nil, nil, err
	}
	if normalMap != nil {
		nm, err := material.NewNormalMapModifier(normalMap)
		if err != nil {
			return nil, nil, err
		}
		modifier = nm
	}

	emission, err := p.spectrum("emission", core.Vec3{})
	if err != nil {
		return nil, nil, err
	}
	return modifier, emission, nil
}
