package material

import (
	"fmt"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/core"
)

// surface holds what every material kind shares: a display name, the
// modifier applied before lobes are built and the self-illumination texture
type surface struct {
	name     string
	modifier Modifier
	emission Texture
}

func newSurface(name string, modifier Modifier, emission Texture) (surface, error) {
	if modifier == nil {
		return surface{}, missing(ErrMissingModifier, "modifier")
	}
	if err := checkTextures(namedTexture{"emission", emission}); err != nil {
		return surface{}, err
	}
	return surface{name: name, modifier: modifier, emission: emission}, nil
}

func missing(err error, field string) error {
	return fmt.Errorf("%w: %s", err, field)
}

// Name returns the display name
func (s *surface) Name() string { return s.name }

// Emittance returns the emitted light at si
func (s *surface) Emittance(si *SurfaceInteraction) core.Vec3 {
	return s.emission.Evaluate(si).Saturate()
}

// prepare applies the modifier once per interaction
func (s *surface) prepare(si *SurfaceInteraction) {
	s.modifier.Modify(si)
}

// nodes returns the shared graph children followed by textures
func (s *surface) nodes(textures ...Texture) []Node {
	return append([]Node{s.modifier, s.emission}, textureNodes(textures...)...)
}

func newBSDF(si *SurfaceInteraction, eta float64, lobes ...bxdf.BXDF) ScatteringFunctions {
	return ScatteringFunctions{BSDF: bxdf.NewBSDF(si.Shading, si.Normal, eta, lobes...)}
}

// sampleColor samples a color texture saturated to non-negative values
func sampleColor(tex Texture, si *SurfaceInteraction) core.Vec3 {
	return tex.Evaluate(si).Saturate()
}

// sampleUnit samples a float texture clamped to [0, 1]
func sampleUnit(tex Texture, si *SurfaceInteraction) float64 {
	return core.Clamp(tex.EvaluateFloat(si), 0, 1)
}

// sampleRoughness samples a roughness texture; negative values read as smooth
func sampleRoughness(tex Texture, si *SurfaceInteraction) float64 {
	return max(0, tex.EvaluateFloat(si))
}

// microfacetAlphas converts user roughness to distribution alphas
func microfacetAlphas(u, v float64, remap bool) (float64, float64) {
	if remap {
		return bxdf.RoughnessToAlpha(u), bxdf.RoughnessToAlpha(v)
	}
	return u, v
}
