package material

import (
	"github.com/df07/go-scattering/pkg/core"
)

// Texture provides spatially-varying inputs for materials. Evaluation is pure.
type Texture interface {
	Node

	// Evaluate returns the color at si
	Evaluate(si *SurfaceInteraction) core.Vec3

	// EvaluateFloat returns the scalar value at si
	EvaluateFloat(si *SurfaceInteraction) float64
}

// ConstantTexture provides a uniform value
type ConstantTexture struct {
	Value core.Vec3
	Float float64
}

// NewConstantTexture creates a uniform color texture. Its scalar value is the
// channel average.
func NewConstantTexture(color core.Vec3) *ConstantTexture {
	return &ConstantTexture{Value: color, Float: color.Average()}
}

// NewConstantFloatTexture creates a uniform scalar texture
func NewConstantFloatTexture(value float64) *ConstantTexture {
	return &ConstantTexture{Value: core.NewGray(value), Float: value}
}

func (c *ConstantTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	return c.Value
}

func (c *ConstantTexture) EvaluateFloat(si *SurfaceInteraction) float64 {
	return c.Float
}

func (c *ConstantTexture) Children() []Node { return nil }

// isBlackConstant reports whether tex is known to be black everywhere
func isBlackConstant(tex Texture) bool {
	c, ok := tex.(*ConstantTexture)
	return ok && c.Value.IsBlack()
}

type namedTexture struct {
	name    string
	texture Texture
}

// checkTextures fails with ErrMissingTexture for the first nil input
func checkTextures(textures ...namedTexture) error {
	for _, t := range textures {
		if t.texture == nil {
			return missing(ErrMissingTexture, t.name)
		}
	}
	return nil
}

// textureNodes lists the non-nil textures as graph children
func textureNodes(textures ...Texture) []Node {
	nodes := make([]Node, 0, len(textures))
	for _, t := range textures {
		if t != nil {
			nodes = append(nodes, t)
		}
	}
	return nodes
}
